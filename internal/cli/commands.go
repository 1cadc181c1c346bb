package cli

import (
	"fmt"
	"os"

	"github.com/lunarpark/hearthside/internal/engine"
	"github.com/lunarpark/hearthside/internal/store"
	"github.com/spf13/cobra"
)

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("HEARTHSIDE_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

// openEngine wires a local engine the way serve does, without the server.
func openEngine() (*engine.Engine, error) {
	db, err := openDB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	lib, err := loadContent(os.Getenv("HEARTHSIDE_DATA_DIR"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load content: %w", err)
	}
	return engine.New(db, lib), nil
}

// --- characters command ---

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List characters with their relationship state",
	RunE:  runCharacters,
}

func runCharacters(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.DB.Close()

	for _, c := range eng.Content.Characters() {
		stage, affection, err := eng.CurrentStage(c.ID)
		if err != nil {
			return err
		}
		mood, err := eng.Mood(c.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		fmt.Printf("  %s — affection %.0f, %s mood\n", stage.Name, affection, mood.Mood)
		if c.Bio != "" {
			fmt.Printf("  %s\n", c.Bio)
		}
		fmt.Println()
	}
	return nil
}

// --- dialogue command ---

var (
	dialogueSub     string
	dialogueWeather string
)

var dialogueCmd = &cobra.Command{
	Use:   "dialogue [character] [category]",
	Short: "Ask a character for a line",
	Args:  cobra.ExactArgs(2),
	RunE:  runDialogue,
}

func init() {
	dialogueCmd.Flags().StringVar(&dialogueSub, "sub", "", "Subcategory (e.g. morning)")
	dialogueCmd.Flags().StringVar(&dialogueWeather, "weather", "", "Weather context (e.g. rain)")
}

func runDialogue(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.DB.Close()

	line, err := eng.SelectDialogue(engine.DialogueRequest{
		CharacterID: args[0],
		Category:    args[1],
		Subcategory: dialogueSub,
		Weather:     dialogueWeather,
	})
	if err != nil {
		return err
	}
	fmt.Println(line.Text)
	return nil
}

// --- decay command ---

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Run memory decay once",
	RunE:  runDecay,
}

func runDecay(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.DB.Close()

	faded, err := eng.DecayAll()
	if err != nil {
		return err
	}
	fmt.Printf("faded %d memories\n", faded)
	return nil
}

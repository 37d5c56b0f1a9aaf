package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summitledger/mmr/mmr"
)

var rootCommand = &cobra.Command{
	Use:   "root",
	Short: "Print the current mmr size and root",
	Args:  cobra.NoArgs,
	RunE:  runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	size, err := st.MMRSize()
	if err != nil {
		return fmt.Errorf("reading current size: %w", err)
	}

	engine := mmr.New[[32]byte](size, st, selectedMerger())
	root, err := engine.GetRoot()
	if err != nil {
		return fmt.Errorf("get root: %w", err)
	}
	fmt.Printf("mmr_size=%d root=%x\n", size, root)
	return nil
}

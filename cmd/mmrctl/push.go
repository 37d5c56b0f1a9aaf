package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/summitledger/mmr/mmr"
)

var pushCmd = &cobra.Command{
	Use:   "push [payload...]",
	Short: "Append one leaf per argument and print the new root",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
	st, durable, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	size, err := st.MMRSize()
	if err != nil {
		return fmt.Errorf("reading current size: %w", err)
	}

	merger := selectedMerger()
	engine := mmr.New[[32]byte](size, st, merger)

	for _, payload := range args {
		pos, err := engine.Push(merger.HashLeaf([]byte(payload)))
		if err != nil {
			return fmt.Errorf("push: %w", err)
		}
		logger.Info("pushed leaf", zap.Uint64("pos", pos), zap.String("payload", payload))
	}

	if err := engine.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if durable {
		if err := st.SetMMRSize(engine.MMRSize()); err != nil {
			return fmt.Errorf("persisting size: %w", err)
		}
	}

	root, err := engine.GetRoot()
	if err != nil {
		return fmt.Errorf("get root: %w", err)
	}
	fmt.Printf("mmr_size=%d root=%x\n", engine.MMRSize(), root)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summitledger/mmr/mmr"
)

var (
	verifyRootHex string
	verifyLeaves  []uint64
	verifyPayload []string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Regenerate and check an inclusion proof for one or more leaves",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyRootHex, "root", "", "expected root, hex encoded")
	verifyCmd.Flags().Uint64SliceVar(&verifyLeaves, "leaf", nil, "zero-based leaf index (repeatable, paired by order with --payload)")
	verifyCmd.Flags().StringArrayVar(&verifyPayload, "payload", nil, "leaf payload whose hash is claimed at the paired --leaf index")
	_ = verifyCmd.MarkFlagRequired("root")
	_ = verifyCmd.MarkFlagRequired("leaf")
	_ = verifyCmd.MarkFlagRequired("payload")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if len(verifyLeaves) != len(verifyPayload) {
		return fmt.Errorf("--leaf and --payload must be given the same number of times")
	}

	root, err := parseHash(verifyRootHex)
	if err != nil {
		return fmt.Errorf("--root: %w", err)
	}

	st, _, err := openStore()
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

	positions := make([]uint64, len(verifyLeaves))
	nodes := make([]mmr.ProofItem[[32]byte], len(verifyLeaves))
	for i, idx := range verifyLeaves {
		pos := mmr.LeafPos(idx)
		positions[i] = pos
		nodes[i] = mmr.ProofItem[[32]byte]{Pos: pos, Item: merger.HashLeaf([]byte(verifyPayload[i]))}
	}

	proof, err := engine.GenProof(positions)
	if err != nil {
		return fmt.Errorf("gen proof: %w", err)
	}

	ok, err := proof.Verify(root, nodes)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if !ok {
		return fmt.Errorf("proof does not match the given root")
	}
	fmt.Println("ok")
	return nil
}

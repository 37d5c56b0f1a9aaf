package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/summitledger/mmr/merge"
	"github.com/summitledger/mmr/store"
)

var (
	dbPath    string
	useBlake3 bool
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mmrctl",
	Short: "Inspect and grow a merkle mountain range from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("starting logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Sync()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "bbolt database path (empty uses a throwaway in-memory store)")
	rootCmd.PersistentFlags().BoolVar(&useBlake3, "blake3", false, "use the blake3 merge instead of the default blake2b-256 one")
	rootCmd.AddCommand(pushCmd, rootCommand, proofCmd, verifyCmd)
}

// selectedMerger selects the merge implementation the current invocation was asked
// to use. Both implementations produce [32]byte items, so the rest of the
// CLI never needs to branch on which one is active.
func selectedMerger() mergeImpl {
	if useBlake3 {
		return merge.Blake3{}
	}
	return merge.Blake2b256{}
}

// mergeImpl is the surface both merge implementations share: mmr.Merge's
// Merge method plus the HashLeaf leaf hasher the CLI uses to build leaves.
type mergeImpl interface {
	Merge(left, right [32]byte) ([32]byte, error)
	HashLeaf(data []byte) [32]byte
}

// openStore opens the bbolt store at dbPath, or a fresh in-memory one if no
// path was given. The bool return reports whether the store is durable - the
// push command uses it to decide whether persisting the new size matters.
func openStore() (node32Store, bool, error) {
	if dbPath == "" {
		return memoryAdapter{store.NewMemory[[32]byte]()}, false, nil
	}
	b, err := store.OpenBolt[[32]byte](dbPath, store.Fixed32Codec())
	if err != nil {
		return nil, false, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	return boltAdapter{b}, true, nil
}

// node32Store is the store.Bolt/store.Memory surface the CLI needs, plus
// size bookkeeping for resuming across invocations.
type node32Store interface {
	Get(pos uint64) ([32]byte, bool, error)
	Append(startPos uint64, items [][32]byte) error
	Commit() error
	MMRSize() (uint64, error)
	SetMMRSize(size uint64) error
	Close() error
}

type memoryAdapter struct{ *store.Memory[[32]byte] }

func (memoryAdapter) MMRSize() (uint64, error) { return 0, nil }
func (memoryAdapter) SetMMRSize(uint64) error  { return nil }
func (memoryAdapter) Close() error             { return nil }

type boltAdapter struct{ *store.Bolt[[32]byte] }

func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

package netmsg

import "github.com/frostgate-games/netmsg/internal/constants"

// Re-exported wire-level limits, for callers that want to size their
// own buffers against the same ceilings the core uses.
const (
	MaxMessageTypes         = constants.MaxMessageTypes
	NonFragmentedBatchBytes = constants.NonFragmentedBatchBytes
	FragmentedBatchBytes    = constants.FragmentedBatchBytes
)

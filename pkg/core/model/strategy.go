package model

// Strategy determines how eligible accounts are chosen when a pool is assigned
type Strategy string

const (
	// StrategyRandom assigns the pool to a uniformly shuffled subset of eligible accounts
	StrategyRandom Strategy = "random"

	// StrategyBalanced assigns the pool to the least-loaded eligible accounts first
	StrategyBalanced Strategy = "balanced"

	// StrategyManual assigns the pool to an explicit, caller-provided account list
	StrategyManual Strategy = "manual"
)

// Valid reports whether s is one of the known assignment strategies
func (s Strategy) Valid() bool {
	switch s {
	case StrategyRandom, StrategyBalanced, StrategyManual:
		return true
	}
	return false
}

package evm

import "errors"

var (
	// ErrRecipientNotWhitelisted means a value-moving op targeted a wallet
	// that isn't in the whitelist. The op is refused before any tx is built.
	ErrRecipientNotWhitelisted = errors.New("recipient is not whitelisted")

	// ErrTokenNotWhitelisted means an op touched a token contract that
	// isn't whitelisted for the active chain.
	ErrTokenNotWhitelisted = errors.New("token is not whitelisted on this chain")

	// ErrPoolNotFound means the factory has no pair for the requested
	// token combination.
	ErrPoolNotFound = errors.New("no liquidity pool exists for this token pair")

	// ErrContractNotDeployed means the addressbook has no entry for a
	// required contract on the active chain.
	ErrContractNotDeployed = errors.New("contract is not deployed on this chain")
)

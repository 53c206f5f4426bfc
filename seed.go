package tickets404

import "math/big"

// NormalizeSeed reduces a raw random word to the per-ticket value the lottery
// compares against ticket probabilities.
func NormalizeSeed(rawSeed, tokenId *big.Int) *big.Int {
	seed := new(big.Int).Xor(rawSeed, tokenId)
	return seed.Mod(seed, SeedModulus)
}

// SeedForProbability inverts NormalizeSeed: the returned raw seed normalizes to
// ticketProbability mod 2**32-1 for tokenId.
func SeedForProbability(tokenId, ticketProbability *big.Int) *big.Int {
	seed := new(big.Int).Mod(ticketProbability, SeedModulus)
	return seed.Xor(seed, tokenId)
}

// Package cost prices language model usage. [ModelCost] holds per-token
// rates and [Summary] is the breakdown reported for one resolution, across
// every attempt it made.
package cost

// Package overview tracks what one resolution cost: every completion it
// made, the token usage summed across attempts, and the priced total.
// The central type is [Overview]; bind it to a [context.Context] with
// [Overview.ToContext] and the client records each completion into it.
package overview

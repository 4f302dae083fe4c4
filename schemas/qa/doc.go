// Package qa is the question-answering record shipped with structguard: an
// answer plus the quotes from the context that support it.
//
// [Descriptor] validates parsed model output into a [Response];
// [BuildPrompt] renders the instructions, context and question into the
// prompt handed to the resolve loop.
package qa

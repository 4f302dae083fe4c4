// Package contextdoc loads the documents a question is asked about and
// renders them as the labelled context block the Q&A prompt expects:
//
//	Document A (id: doc_001): The company reported revenue of $50M in Q3.
//	Document B (id: doc_002): Operating margin improved to 22%.
//
// Documents come from literal text, local files or URLs. HTML (by file
// extension or Content-Type) is converted to Markdown with html-to-markdown
// so that models see readable text instead of markup.
package contextdoc

package qa

import (
	"github.com/leofalp/structguard/core/schema"
)

// SchemaName is the record name used in validation reports.
const SchemaName = "QAResponse"

// Citation is one quote backing an answer.
type Citation struct {
	// SourceID is the ID of the source chunk or document.
	SourceID string `json:"source_id"`
	// Quote is an exact short quote from the source.
	Quote string `json:"quote"`
}

// Response is a natural language answer with its supporting citations.
// Citations is never nil once validated.
type Response struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Descriptor validates a parsed tree into a Response. "answer" is required;
// "citations" defaults to an empty list when absent (null is rejected) and
// every entry present must carry both "source_id" and "quote".
var Descriptor = schema.New(SchemaName, Validate, document())

// Validate is the validation function behind [Descriptor].
func Validate(tree any) (Response, schema.Diagnostics) {
	c := schema.NewChecker()
	obj := c.Object("", tree)

	response := Response{
		Answer:    c.RequiredString(obj, "", "answer"),
		Citations: []Citation{},
	}

	for i, item := range c.OptionalArray(obj, "", "citations") {
		path := schema.Join("citations", i)
		entry := c.Object(path, item)
		if entry == nil {
			continue
		}
		response.Citations = append(response.Citations, Citation{
			SourceID: c.RequiredString(entry, path, "source_id"),
			Quote:    c.RequiredString(entry, path, "quote"),
		})
	}

	return response, c.Diagnostics()
}

// document describes Response in the subset accepted by strict structured
// output modes: every property required, no additional properties.
func document() *schema.JSONSchema {
	return &schema.JSONSchema{
		Type:                 "object",
		Required:             []string{"answer", "citations"},
		AdditionalProperties: false,
		Properties: map[string]*schema.JSONSchema{
			"answer": {
				Type:        "string",
				Description: "Natural language answer to the question",
			},
			"citations": {
				Type:        "array",
				Description: "List of citations that support the answer",
				Items: &schema.JSONSchema{
					Type:                 "object",
					Required:             []string{"source_id", "quote"},
					AdditionalProperties: false,
					Properties: map[string]*schema.JSONSchema{
						"source_id": {
							Type:        "string",
							Description: "ID of the source chunk or document",
						},
						"quote": {
							Type:        "string",
							Description: "Exact short quote from the source",
						},
					},
				},
			},
		},
	}
}

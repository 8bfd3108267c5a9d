/*
oracle.go - The function-calling LLM boundary

PURPOSE:
  The language model is a black box to this system: given a question and the
  fixed function schema, it picks one function and its arguments. Everything
  else (executing the function, rendering the answer) happens locally, so
  the Oracle interface is the entire LLM surface area.

IMPLEMENTATIONS:
  GeminiOracle: Google Gemini via the generative-ai-go SDK, using native
  function declarations. Built only when an API key is configured; without
  one the assistant answers deterministic intents and reports the LLM layer
  as unavailable for everything else.
*/
package assistant

import (
	"context"
	"errors"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// FunctionDecl describes one callable function to the model.
type FunctionDecl struct {
	Name        string
	Description string
	// Params maps parameter name to its description. All parameters are
	// strings on the wire; handlers parse dates and numbers themselves.
	Params map[string]string
}

// FunctionCall is the model's choice of function and arguments.
type FunctionCall struct {
	Name string
	Args map[string]string
}

// ErrNoFunctionCall is returned when the model answers without selecting a
// function from the schema.
var ErrNoFunctionCall = errors.New("model did not select a function")

// Oracle selects which function answers a question. It never executes
// anything itself.
type Oracle interface {
	ChooseFunction(ctx context.Context, question string, decls []FunctionDecl) (FunctionCall, error)
}

// =============================================================================
// GEMINI IMPLEMENTATION
// =============================================================================

// GeminiOracle implements Oracle on Google Gemini function calling.
type GeminiOracle struct {
	model *genai.GenerativeModel
}

func NewGeminiOracle(ctx context.Context, apiKey string) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiOracle{model: client.GenerativeModel("gemini-1.5-pro")}, nil
}

func (g *GeminiOracle) ChooseFunction(ctx context.Context, question string, decls []FunctionDecl) (FunctionCall, error) {
	g.model.Tools = []*genai.Tool{{FunctionDeclarations: toGenaiDecls(decls)}}

	resp, err := g.model.GenerateContent(ctx, genai.Text(question))
	if err != nil {
		return FunctionCall{}, fmt.Errorf("gemini generate error: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				args := make(map[string]string, len(fc.Args))
				for k, v := range fc.Args {
					args[k] = fmt.Sprint(v)
				}
				return FunctionCall{Name: fc.Name, Args: args}, nil
			}
		}
	}
	return FunctionCall{}, ErrNoFunctionCall
}

func toGenaiDecls(decls []FunctionDecl) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, len(decls))
	for i, d := range decls {
		props := make(map[string]*genai.Schema, len(d.Params))
		for name, desc := range d.Params {
			props[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
		}
		var params *genai.Schema
		if len(props) > 0 {
			params = &genai.Schema{Type: genai.TypeObject, Properties: props}
		}
		out[i] = &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  params,
		}
	}
	return out
}

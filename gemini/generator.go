package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/wikirag"
	"google.golang.org/genai"
)

const generationModel = "gemini-2.5-flash"

const systemInstruction = "You are a helpful assistant that provides clear, informative answers based on the given context. " +
	"Use only the information provided in the context. " +
	"Provide an answer that directly addresses the question, organize it clearly, and avoid being overly wordy. " +
	"If the context does not contain enough information to fully answer the question, acknowledge what you can and cannot answer from it."

// Ensure Generator implements wikirag.Generator at compile time.
var _ wikirag.Generator = (*Generator)(nil)

// Generator implements wikirag.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) (*Generator, error) {
	if client == nil {
		return nil, wikirag.Errorf(wikirag.EINVALID, "genai client required")
	}
	return &Generator{client: client, model: generationModel}, nil
}

// Generate answers a question grounded in the assembled context.
func (g *Generator) Generate(ctx context.Context, contextText, question string) (string, error) {
	if contextText == "" {
		return "", wikirag.Errorf(wikirag.EINVALID, "context required")
	}
	if question == "" {
		return "", wikirag.Errorf(wikirag.EINVALID, "question required")
	}

	prompt := BuildUserPrompt(contextText, question)
	config := BuildConfig()

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", wikirag.Errorf(wikirag.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: systemInstruction,
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved context
// and the question.
func BuildUserPrompt(contextText, question string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
}

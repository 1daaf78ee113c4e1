package llm

// NewCustom targets a self-hosted OpenAI-compatible server such as vLLM or
// llama.cpp's server.
func NewCustom(baseURL, apiKey, model string, maxTokens int) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		MaxTokens:  maxTokens,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}

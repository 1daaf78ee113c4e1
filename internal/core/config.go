package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetChromemPath() string
	GetCollection() string
	GetPlatform() string
	GetVectorBackend() string
}

type RetrievalConfig interface {
	GetTopK() int
	GetDateKey() string
	// GetLocation is the zone stored timestamps are written in.
	GetLocation() *time.Location
	GetStoreTimeout() time.Duration
}

type SynthesisConfig interface {
	GetLLMTimeout() time.Duration
}

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaBaseURL() string
	GetCustomBaseURL() string
	GetCustomAPIKey() string
	GetMaxTokens() int
}

type EmbeddingConfig interface {
	GetEmbeddingModel() string
	GetEmbeddingBaseURL() string
	GetEmbeddingAPIKey() string
	GetEmbeddingDimensions() int
}

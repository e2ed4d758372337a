package config

// Operation identifiers used to select per-operation AI configuration and prompts.
const (
	OperationPortfolio = "portfolio"
	OperationScorecard = "scorecard"
)

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetPortfolioConfig returns the AI configuration for portfolio extraction with fallback to global config
func (c *Config) GetPortfolioConfig() OperationAIConfig {
	config := c.AI.Portfolio

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply portfolio-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ExtractProfile == "" {
		config.CustomPrompts.SystemPrompts.ExtractProfile = c.AI.CustomPrompts.SystemPrompts.ExtractProfile
	}
	if config.CustomPrompts.UserPrompts.ExtractProfile == "" {
		config.CustomPrompts.UserPrompts.ExtractProfile = c.AI.CustomPrompts.UserPrompts.ExtractProfile
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ExtractProfileFile == "" {
		config.CustomPrompts.SystemPrompts.ExtractProfileFile = c.AI.CustomPrompts.SystemPrompts.ExtractProfileFile
	}
	if config.CustomPrompts.UserPrompts.ExtractProfileFile == "" {
		config.CustomPrompts.UserPrompts.ExtractProfileFile = c.AI.CustomPrompts.UserPrompts.ExtractProfileFile
	}

	return config
}

// GetScorecardConfig returns the AI configuration for resume scoring with fallback to global config
func (c *Config) GetScorecardConfig() OperationAIConfig {
	config := c.AI.Scorecard

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply scorecard-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ScoreResume == "" {
		config.CustomPrompts.SystemPrompts.ScoreResume = c.AI.CustomPrompts.SystemPrompts.ScoreResume
	}
	if config.CustomPrompts.UserPrompts.ScoreResume == "" {
		config.CustomPrompts.UserPrompts.ScoreResume = c.AI.CustomPrompts.UserPrompts.ScoreResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ScoreResumeFile == "" {
		config.CustomPrompts.SystemPrompts.ScoreResumeFile = c.AI.CustomPrompts.SystemPrompts.ScoreResumeFile
	}
	if config.CustomPrompts.UserPrompts.ScoreResumeFile == "" {
		config.CustomPrompts.UserPrompts.ScoreResumeFile = c.AI.CustomPrompts.UserPrompts.ScoreResumeFile
	}

	return config
}

// GetLoadedPortfolioPrompts returns a copy of the loaded prompts for portfolio extraction
func (c *Config) GetLoadedPortfolioPrompts() OperationLoadedPrompts {
	return loadedPrompts.Portfolio
}

// GetLoadedScorecardPrompts returns a copy of the loaded prompts for resume scoring
func (c *Config) GetLoadedScorecardPrompts() OperationLoadedPrompts {
	return loadedPrompts.Scorecard
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}

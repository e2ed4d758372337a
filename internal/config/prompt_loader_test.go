package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for profile extraction"
	userPromptContent := "Test user prompt template: %s"

	systemPromptFile := filepath.Join(tempDir, "system.extract.md")
	userPromptFile := filepath.Join(tempDir, "user.extract.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}

	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Portfolio: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						ExtractProfileFile: systemPromptFile,
					},
					UserPrompts: UserPrompts{
						ExtractProfileFile: userPromptFile,
					},
				},
			},
		},
	}

	err := config.loadPromptsFromFiles()
	if err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	// Verify content was loaded into global loadedPrompts
	loadedOps := GetPromptsForOperation(OperationPortfolio)

	if loadedOps.SystemPrompts.ExtractProfile != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loadedOps.SystemPrompts.ExtractProfile)
	}

	if loadedOps.UserPrompts.ExtractProfile != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loadedOps.UserPrompts.ExtractProfile)
	}

	// Verify file paths are preserved
	if config.AI.Portfolio.CustomPrompts.SystemPrompts.ExtractProfileFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}

	if config.AI.Portfolio.CustomPrompts.UserPrompts.ExtractProfileFile != userPromptFile {
		t.Error("Expected user prompt file path to be preserved")
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid test file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Scorecard: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						ScoreResumeFile: validFile,
					},
				},
			},
		},
	}

	err := config.validatePromptFiles()
	if err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	// Test with non-existent file
	config.AI.Scorecard.CustomPrompts.SystemPrompts.ScoreResumeFile = filepath.Join(tempDir, "nonexistent.md")

	err = config.validatePromptFiles()
	if err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config := &Config{}
	loadedContent, err := config.loadPromptFromFile(testFile, "system", "extractProfile")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}

	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	// Empty file should be rejected
	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte(""), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}

	_, err = config.loadPromptFromFile(emptyFile, "system", "extractProfile")
	if err == nil {
		t.Error("Expected error for empty file")
	}

	// Missing file should be rejected
	_, err = config.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "extractProfile")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestGetPromptsForOperationFallback(t *testing.T) {
	// Unknown operation types fall back to the global prompts
	result := GetPromptsForOperation("unknown")

	if result.SystemPrompts != loadedPrompts.Global.SystemPrompts {
		t.Error("Expected unknown operation to fall back to global system prompts")
	}
	if result.UserPrompts != loadedPrompts.Global.UserPrompts {
		t.Error("Expected unknown operation to fall back to global user prompts")
	}
}

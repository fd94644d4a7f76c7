package handlers

import (
	"context"
	"fmt"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		overwrite, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !overwrite {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome(fullOutput)

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome(fullOutput bool) {
	fmt.Println()
	fmt.Println("notionkit - Notion workspace setup")
	fmt.Println("==================================")
	fmt.Println()
	fmt.Println("This wizard creates a notionkit configuration.")
	if fullOutput {
		fmt.Println("Full output mode: every option is written to the file.")
	} else {
		fmt.Println("Minimal output mode: only values you choose are written.")
	}
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Parent page:  %s\n", cfg.ParentPageID)
	fmt.Printf("  Handle store: %s\n", cfg.Store.Backend)
	fmt.Printf("  Concurrency:  %d\n", cfg.Concurrency)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	if cfg.Notion.TokenFile == "" {
		fmt.Println("  1. Set your integration token:")
		fmt.Printf("     export %s=<your-token>\n", config.EnvToken)
	} else {
		fmt.Printf("  1. Put your integration token into %s\n", cfg.Notion.TokenFile)
	}
	fmt.Println()
	fmt.Println("  2. Share the parent page with the integration")
	fmt.Println()
	fmt.Println("  3. Check the connection and create the workspace:")
	fmt.Println("     notionkit verify")
	fmt.Println("     notionkit setup")
	fmt.Println()
}

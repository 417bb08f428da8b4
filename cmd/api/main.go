package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apicampaign "marketing_ai/pkg/api/campaign"
	apiconfig "marketing_ai/pkg/api/config"
	apidataset "marketing_ai/pkg/api/dataset"
	"marketing_ai/pkg/core/agent"
	"marketing_ai/pkg/core/prompt"
	"marketing_ai/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize provider manager from config
	var agentCfg agent.Config
	if configData, err := os.ReadFile("config/models.yaml"); err == nil {
		yaml.Unmarshal(configData, &agentCfg)
	}
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "openai"
	}
	agentMgr := agent.NewManager(agentCfg)

	// Optional report archive
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Report archive unavailable: %v\n", err)
		} else {
			fmt.Println("[STORE] Report archive connected")
		}
	}

	// Config endpoints
	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Dataset endpoints
	datasetHandler := apidataset.NewHandler(agentMgr)
	http.HandleFunc("/api/dataset/upload", datasetHandler.HandleUpload)
	http.HandleFunc("/api/dataset/overview", datasetHandler.HandleOverview)
	http.HandleFunc("/api/dataset/insights", datasetHandler.HandleInsights)

	// Campaign endpoints
	campaignHandler := apicampaign.NewHandler(agentMgr, datasetHandler.Session)
	http.HandleFunc("/api/campaign/generate", campaignHandler.HandleGenerate)
	http.HandleFunc("/api/campaign/export", campaignHandler.HandleExport)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/dataset/upload")
	fmt.Println("  - GET  /api/dataset/overview")
	fmt.Println("  - GET  /api/dataset/insights")
	fmt.Println("  - POST /api/campaign/generate")
	fmt.Println("  - GET  /api/campaign/export?id=...")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"marketing_ai/pkg/core/agent"
	"marketing_ai/pkg/core/calc"
	"marketing_ai/pkg/core/campaign"
	"marketing_ai/pkg/core/dataset"
	"marketing_ai/pkg/core/export"
	"marketing_ai/pkg/core/segment"
)

func main() {
	csvPath := flag.String("csv", "", "customer CSV file")
	segmentName := flag.String("segment", "", "target segment (empty = whole dataset)")
	contentType := flag.String("type", "email", "content type: email, ad_copy, social_post, sms, campaign_ideas")
	tone := flag.String("tone", "Friendly", "tone of voice")
	channel := flag.String("channel", "Email", "delivery channel")
	variants := flag.Int("variants", 3, "variants per target")
	perRecord := flag.Bool("per-record", false, "one prompt per customer instead of one shared prompt")
	provider := flag.String("provider", "", "pin a provider for this run instead of the configured one")
	outPath := flag.String("out", "", "write the plain-text report here (default stdout)")
	homeCountry := flag.String("home-country", "US", "home country for the international segment")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("Error: -csv is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	// Provider manager from config, default openai
	var agentCfg agent.Config
	if configData, err := os.ReadFile("config/models.yaml"); err == nil {
		yaml.Unmarshal(configData, &agentCfg)
	}
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "openai"
	}
	mgr := agent.NewManager(agentCfg)

	// 1. Load data
	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Error: cannot open %s: %v", *csvPath, err)
	}
	records, err := dataset.Load(f)
	f.Close()
	if err != nil {
		log.Fatalf("Error: CSV parse failed: %v", err)
	}
	fmt.Printf("[DATASET] Loaded %d records from %s\n", len(records), *csvPath)

	// 2. Metrics and segments
	snap := calc.Compute(records, "engagement_score", calc.DefaultMetricsConfig())
	fmt.Printf("[METRICS] total=%d high_engagement_rate=%.2f avg_engagement=%.1f revenue_potential=%.0f\n",
		snap.Total, snap.HighEngagementRate, snap.AvgEngagement, snap.RevenuePotential)

	segments, err := segment.Segment(records, segment.DefaultDefinitions(*homeCountry))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	subset := records
	subsetName := "all_customers"
	if *segmentName != "" {
		chosen, ok := segments[*segmentName]
		if !ok {
			log.Fatalf("Error: unknown segment %q", *segmentName)
		}
		subset = chosen
		subsetName = *segmentName
	}
	fmt.Printf("[SEGMENT] Targeting %q: %d records\n", subsetName, len(subset))

	// 3. Generate
	var targets []campaign.Target
	if *perRecord {
		targets = campaign.TargetsPerRecord(subset, []string{"name", "email", "customer_id"})
	} else {
		targets = campaign.SharedTarget(subsetName, subset)
	}

	style := campaign.StyleConfig{
		Tone:         *tone,
		Channel:      *channel,
		VariantCount: *variants,
	}

	assembler := campaign.NewAssembler(nil)
	client := mgr.Client("campaign")
	if *provider != "" {
		pinned, err := mgr.ClientWithProvider("campaign", *provider)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		client = pinned
	}

	report, err := assembler.Generate(context.Background(), targets, campaign.ContentType(*contentType), style, client)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("[CAMPAIGN] Report %s: %d/%d targets succeeded\n", report.ID, report.Succeeded(), len(report.Entries))

	// 4. Export
	text := export.PlainText(report)
	if *outPath == "" {
		fmt.Println(text)
		return
	}
	if err := os.WriteFile(*outPath, []byte(text), 0644); err != nil {
		log.Fatalf("Error: failed to write %s: %v", *outPath, err)
	}
	fmt.Printf("[EXPORT] Wrote %s\n", *outPath)
}

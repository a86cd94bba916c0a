package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"enabler-backend/dao"
	"enabler-backend/db"
	"enabler-backend/usecase"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load enabler pricing frameworks from a YAML file",
	Long: `Loads pricing frameworks from YAML, replacing existing ones:

  frameworks:
    - enabler_id: enabler-1
      base_price: "1000"
      max_discount_percentage: "10"
      auto_negotiate: true`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "frameworks.yaml", "YAML file with frameworks")
}

type seedEntry struct {
	EnablerID             string `yaml:"enabler_id"`
	BasePrice             string `yaml:"base_price"`
	MaxDiscountPercentage string `yaml:"max_discount_percentage"`
	AutoNegotiate         bool   `yaml:"auto_negotiate"`
}

type seedDoc struct {
	Frameworks []seedEntry `yaml:"frameworks"`
}

func loadSeed(path string) (*seedDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &doc, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	doc, err := loadSeed(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, cfg.DB.Driver, logger); err != nil {
		return err
	}

	frameworks := usecase.NewFrameworkUsecase(dao.NewFrameworkRepository(conn), logger)
	for i, e := range doc.Frameworks {
		base, err := decimal.NewFromString(e.BasePrice)
		if err != nil {
			return fmt.Errorf("frameworks[%d].base_price: %w", i, err)
		}
		pct, err := decimal.NewFromString(e.MaxDiscountPercentage)
		if err != nil {
			return fmt.Errorf("frameworks[%d].max_discount_percentage: %w", i, err)
		}
		if _, err := frameworks.SaveFramework(ctx, e.EnablerID, base, pct, e.AutoNegotiate); err != nil {
			return fmt.Errorf("frameworks[%d]: %w", i, err)
		}
	}

	logger.Info("seed loaded", zap.String("file", seedFile), zap.Int("frameworks", len(doc.Frameworks)))
	return nil
}

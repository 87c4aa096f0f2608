package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/richard-senior/kicktip/internal/logger"
	"github.com/richard-senior/kicktip/pkg/util/tipp"
)

func usage() {
	fmt.Println("Usage: kicktip <command>")
	fmt.Println("Commands:")
	fmt.Println("  update           fetch the latest results and extend the dataset")
	fmt.Println("  bootstrap        rebuild the dataset from all configured seasons")
	fmt.Println("  matchdays        list matchdays still open for prediction")
	fmt.Println("  predict <n>      predict matchday n of the current season")
	fmt.Println("  harmonize        align store team names with the fixtures file")
}

func main() {
	// Configure logging
	logger.SetShowDateTime(true)
	logger.SetLogOutput('c')

	logger.Info("Starting github.com/richard-senior/kicktip application")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	app, err := tipp.NewTipp()
	if err != nil {
		logger.Error("Initialisation failed:", err)
		os.Exit(1)
	}
	defer tipp.CloseDatabase()

	switch os.Args[1] {
	case "update":
		if err := app.Update(); err != nil {
			logger.Error("Update failed:", err)
			os.Exit(1)
		}
		logger.Info("Dataset is up to date")

	case "bootstrap":
		if err := app.Bootstrap(); err != nil {
			logger.Error("Bootstrap failed:", err)
			os.Exit(1)
		}
		logger.Info("Dataset rebuilt")

	case "matchdays":
		matchdays, err := app.AvailableMatchdays()
		if err != nil {
			logger.Error("Could not determine available matchdays:", err)
			os.Exit(1)
		}
		if len(matchdays) == 0 {
			fmt.Println("No open matchdays")
			return
		}
		parts := make([]string, len(matchdays))
		for i, md := range matchdays {
			parts[i] = strconv.Itoa(md)
		}
		fmt.Println("Open matchdays:", strings.Join(parts, ", "))

	case "predict":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		matchday, err := strconv.Atoi(os.Args[2])
		if err != nil || matchday < 1 {
			logger.Error("Invalid matchday:", os.Args[2])
			os.Exit(1)
		}
		predictions, err := app.Predict(matchday)
		if err != nil {
			logger.Error("Prediction failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Matchday %d, season %s\n", matchday, app.Engine.CurrentSeason())
		for _, p := range predictions {
			fmt.Println(p.String())
		}

	case "harmonize":
		if err := app.Harmonize(); err != nil {
			logger.Error("Harmonization failed:", err)
			os.Exit(1)
		}
		logger.Info("Team names harmonized")

	default:
		logger.Error("Unknown command:", os.Args[1])
		usage()
		os.Exit(1)
	}
}

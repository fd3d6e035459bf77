package main

import (
	"fmt"
	"os"

	"menu-planner/internal/cli"
	"menu-planner/internal/pkg/common"
)

func main() {
	// 指令列輸出以結果為主，預設只記錄警告以上
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	if err := common.InitLogger(level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

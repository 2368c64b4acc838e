// Package format renders CLI output as tables or JSON.
package format

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Table writes rows under headers in the standard list style.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("No data to display")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(true)
	table.SetRowLine(false)

	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// JSON pretty-prints v to stdout.
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// Status colors an order or KYC status for terminal display.
func Status(status string) string {
	switch status {
	case "completed", "verified":
		return color.GreenString(status)
	case "rejected", "expired":
		return color.RedString(status)
	case "pending", "under_review", "initiated", "on_hold":
		return color.YellowString(status)
	case "processing":
		return color.CyanString(status)
	default:
		return status
	}
}

// Success prints a green check line.
func Success(message string) {
	color.Green("✓ %s", message)
}

// Warn prints a yellow warning line.
func Warn(message string) {
	color.Yellow("! %s", message)
}

// Fail prints a red cross line.
func Fail(message string) {
	color.Red("✗ %s", message)
}

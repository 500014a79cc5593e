package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors      int
	OrdersCreated    int
	UTRSubmissions   int
	Approvals        int
	Rejections       int
	Expirations      int
	APIKeyFailures   int
	ValidationErrors int
	OrderActivities  map[string]int
	ErrorPatterns    map[string]int
}

func main() {
	// Get today's date for log file names
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	// Initialize stats
	stats := &LogStats{
		OrderActivities: make(map[string]int),
		ErrorPatterns:   make(map[string]int),
	}

	// Analyze error logs
	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)

	// Analyze info logs
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	// Print report
	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		// Count rejected API keys
		if strings.Contains(line, "API key") {
			stats.APIKeyFailures++
		}

		// Count validation failures on submissions and order creation
		if strings.Contains(line, "validation failed") {
			stats.ValidationErrors++
			extractOrderActivity(line, stats)
		}

		// Extract error patterns
		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		// Count created orders
		if strings.Contains(line, "created for user") {
			stats.OrdersCreated++
			extractOrderActivity(line, stats)
		}

		// Count payer submissions
		if strings.Contains(line, "UTR submitted for order") {
			stats.UTRSubmissions++
			extractOrderActivity(line, stats)
		}

		// Count operator verdicts
		if strings.Contains(line, "approved by admin") {
			stats.Approvals++
			extractOrderActivity(line, stats)
		}
		if strings.Contains(line, "rejected by admin") {
			stats.Rejections++
			extractOrderActivity(line, stats)
		}

		// Count expired orders
		if strings.Contains(line, "expired") {
			stats.Expirations++
			extractOrderActivity(line, stats)
		}
	}
}

func extractOrderActivity(line string, stats *LogStats) {
	// Extract 9 character order number from log line
	orderRegex := regexp.MustCompile(`\b[0-9]{9}\b`)
	if orderNumber := orderRegex.FindString(line); orderNumber != "" {
		stats.OrderActivities[orderNumber]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	// Extract the main error message
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("\n1. Order Statistics:")
	fmt.Printf("   Orders Created: %d\n", stats.OrdersCreated)
	fmt.Printf("   UTR Submissions: %d\n", stats.UTRSubmissions)
	fmt.Printf("   Approvals: %d\n", stats.Approvals)
	fmt.Printf("   Rejections: %d\n", stats.Rejections)
	fmt.Printf("   Expirations: %d\n", stats.Expirations)

	fmt.Println("\n2. Security Incidents:")
	fmt.Printf("   API Key Failures: %d\n", stats.APIKeyFailures)
	fmt.Printf("   Validation Errors: %d\n", stats.ValidationErrors)

	fmt.Println("\n3. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n4. Most Active Orders:")
	printTopOrders(stats.OrderActivities, 5)

	fmt.Println("\n5. Most Common Errors:")
	printTopErrors(stats.ErrorPatterns, 5)
}

func printTopOrders(orders map[string]int, limit int) {
	type orderActivity struct {
		orderNumber string
		count       int
	}

	var activities []orderActivity
	for orderNumber, count := range orders {
		activities = append(activities, orderActivity{orderNumber, count})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].count > activities[j].count
	})

	for i, activity := range activities {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d activities\n", activity.orderNumber, activity.count)
	}
}

func printTopErrors(errors map[string]int, limit int) {
	type errorCount struct {
		error string
		count int
	}

	var errorList []errorCount
	for err, count := range errors {
		errorList = append(errorList, errorCount{err, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		return errorList[i].count > errorList[j].count
	})

	for i, err := range errorList {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d occurrences\n", err.error, err.count)
	}
}

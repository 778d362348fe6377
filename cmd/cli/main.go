package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/wdp365/siteapi/internal/pagespeed"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a site URL to analyze (e.g., https://example.com): ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if !pagespeed.ValidURL(raw) {
		fmt.Println("Invalid URL.")
		return
	}
	fmt.Print("Strategy [mobile/desktop] (mobile): ")
	strategy, _ := reader.ReadString('\n')
	strategy = strings.TrimSpace(strategy)

	q := url.Values{}
	q.Set("url", raw)
	if strategy != "" {
		q.Set("strategy", strategy)
	}

	client := &http.Client{Timeout: pagespeed.DefaultTimeout + 5*time.Second}
	fmt.Println("Running PageSpeed analysis, this can take up to a minute...")
	resp, err := client.Get(api + "/api/pagespeed?" + q.Encode())
	if err != nil {
		fmt.Println("Error contacting API:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		fmt.Printf("API returned %s: %s\n", resp.Status, e.Detail)
		return
	}

	var rep pagespeed.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		fmt.Println("Could not read report:", err)
		return
	}

	fmt.Printf("\n%s (%s)\n", rep.URL, rep.Strategy)
	names := make([]string, 0, len(rep.Scores))
	for k := range rep.Scores {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %-16s %3d\n", k, rep.Scores[k].Score)
	}
	for _, m := range []struct {
		name string
		v    *string
	}{
		{"FCP", rep.Metrics.FirstContentfulPaint},
		{"LCP", rep.Metrics.LargestContentfulPaint},
		{"TBT", rep.Metrics.TotalBlockingTime},
		{"CLS", rep.Metrics.CumulativeLayoutShift},
		{"Speed Index", rep.Metrics.SpeedIndex},
	} {
		if m.v != nil {
			fmt.Printf("  %-16s %s\n", m.name, *m.v)
		}
	}
}

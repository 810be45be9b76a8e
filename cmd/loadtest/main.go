package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result records one HTTP outcome for aggregation.
type Result struct {
	Status int
	Body   string
	Err    error
}

// Drives concurrent PlaceOrder calls against one product to verify the stock
// counter never oversells under load.
func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	productID := flag.Int("product", 1, "product id")
	token := flag.String("token", "", "buyer auth token")
	nOrders := flag.Int("n", 200, "total placement attempts")
	concurrency := flag.Int("c", 50, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	fmt.Printf("start oversell test: product=%d attempts=%d concurrency=%d\n", *productID, *nOrders, *concurrency)
	results := runPlace(client, *baseURL, *token, *productID, *nOrders, *concurrency)
	printSummary("oversell", results)
}

func runPlace(client *http.Client, baseURL, token string, productID, total, concurrency int) []Result {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = placeOnce(client, baseURL, token, productID)
		}(i)
	}

	wg.Wait()
	return results
}

func placeOnce(client *http.Client, baseURL, token string, productID int) Result {
	body := map[string]any{
		"product_id": productID,
		"quantity":   1,
		"delivery_address": map[string]any{
			"name":    "Load Tester",
			"phone":   "9999999999",
			"email":   "loadtest@example.com",
			"street":  "1 Test Street",
			"area":    "Testing",
			"city":    "Hyderabad",
			"state":   "Telangana",
			"pincode": "500001",
		},
	}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/orders", baseURL), bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(respBody)}
}

// printSummary aggregates the status code distribution.
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{201, 400, 401, 404, 409, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}

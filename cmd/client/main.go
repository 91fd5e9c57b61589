// Package main implements a small interactive client for the bench API.
// It logs in for a session token, keeps it in memory, and exposes commands
// to list, inspect, add, edit, and delete bench records.
package main

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
)

const (
	apiLogin     = "/api/auth/login"
	apiVerify    = "/api/auth/verify"
	apiBenchdata = "/api/benchdata"
)

var (
	version   string
	buildDate string
)

// session holds the in-memory authentication state for the shell.
type session struct {
	token     string
	username  string
	role      string
	expiresAt time.Time
}

// valid reports whether a token is held and its locally cached expiry has
// not passed. An expired session is cleared without a server round-trip.
func (s *session) valid() bool {
	if s.token == "" {
		return false
	}
	if time.Now().After(s.expiresAt) {
		*s = session{}
		return false
	}
	return true
}

func main() {
	baseURL := flag.String("a", "http://localhost:8080", "server base URL")
	flag.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	client := &http.Client{Timeout: 10 * time.Second}
	repl(client, *baseURL)
}

// repl runs the interactive shell loop, accepting commands to manage
// bench records.
func repl(client *http.Client, baseURL string) {
	scanner := bufio.NewScanner(os.Stdin)
	sess := &session{}

	for {
		fmt.Print("benchmarked> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, verify, list, get <id>, add, edit <id>, delete <id>, exit")
		case "login":
			login(client, baseURL, sess, scanner)
		case "verify":
			if requireSession(sess) {
				verify(client, baseURL, sess)
			}
		case "list":
			if requireSession(sess) {
				list(client, baseURL, sess)
			}
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			if requireSession(sess) {
				get(client, baseURL, sess, args[1])
			}
		case "add":
			if requireSession(sess) {
				add(client, baseURL, sess, scanner)
			}
		case "edit":
			if len(args) < 2 {
				fmt.Println("Usage: edit <id>")
				continue
			}
			if requireSession(sess) {
				edit(client, baseURL, sess, scanner, args[1])
			}
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if requireSession(sess) {
				del(client, baseURL, sess, args[1])
			}
		case "exit", "quit":
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func requireSession(sess *session) bool {
	if !sess.valid() {
		fmt.Println("Session expired or not logged in. Use 'login' first.")
		return false
	}
	return true
}

func login(client *http.Client, baseURL string, sess *session, scanner *bufio.Scanner) {
	fmt.Print("Username: ")
	if !scanner.Scan() {
		return
	}
	username := strings.TrimSpace(scanner.Text())

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Failed to read password:", err)
		return
	}

	body, status, err := doPost(client, baseURL+apiLogin, "", map[string]string{
		"username": username,
		"password": string(pw),
	})
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("Login failed:", errorMessage(body))
		return
	}

	var resp struct {
		Token     string `json:"token"`
		Username  string `json:"username"`
		Role      string `json:"role"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fmt.Println("Login failed: bad response:", err)
		return
	}

	sess.token = resp.Token
	sess.username = resp.Username
	sess.role = resp.Role
	sess.expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	fmt.Printf("Logged in as %s (%s), session expires at %s\n",
		sess.username, sess.role, sess.expiresAt.Format(time.Kitchen))
}

func verify(client *http.Client, baseURL string, sess *session) {
	body, status, err := doPost(client, baseURL+apiVerify, sess.token, nil)
	if err != nil {
		fmt.Println("Verify failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("Token invalid:", errorMessage(body))
		return
	}
	fmt.Println(string(body))
}

func list(client *http.Client, baseURL string, sess *session) {
	body, status, err := doGet(client, baseURL+apiBenchdata, sess.token)
	if err != nil {
		fmt.Println("List failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("List failed:", errorMessage(body))
		return
	}

	var resp struct {
		Benches []struct {
			ID        string  `json:"id"`
			Timestamp string  `json:"timestamp"`
			Location  string  `json:"location"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			LoggedBy  string  `json:"loggedBy"`
			Version   int64   `json:"version"`
		} `json:"benches"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fmt.Println("List failed: bad response:", err)
		return
	}

	fmt.Printf("%d record(s)\n", resp.Count)
	for _, b := range resp.Benches {
		fmt.Printf("%s  %-22s %-24s (%.5f, %.5f)  by %s  v%d\n",
			b.ID, b.Timestamp, b.Location, b.Latitude, b.Longitude, b.LoggedBy, b.Version)
	}
}

func get(client *http.Client, baseURL string, sess *session, id string) {
	body, status, err := doGet(client, baseURL+apiBenchdata+"/"+id, sess.token)
	if err != nil {
		fmt.Println("Get failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("Get failed:", errorMessage(body))
		return
	}
	fmt.Println(string(body))
}

func add(client *http.Client, baseURL string, sess *session, scanner *bufio.Scanner) {
	bench := map[string]any{}

	bench["timestamp"] = prompt(scanner, "Timestamp (e.g. 2025-01-19 5:30 PM CT): ")
	bench["location"] = prompt(scanner, "Location: ")

	lat, err := strconv.ParseFloat(prompt(scanner, "Latitude: "), 64)
	if err != nil {
		fmt.Println("Invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(prompt(scanner, "Longitude: "), 64)
	if err != nil {
		fmt.Println("Invalid longitude")
		return
	}
	bench["latitude"] = lat
	bench["longitude"] = lng

	if notes := prompt(scanner, "Notes (optional): "); notes != "" {
		bench["notes"] = notes
	}
	if tags := prompt(scanner, "Tags (comma-separated, optional): "); tags != "" {
		bench["tags"] = splitTags(tags)
	}

	body, status, err := doPost(client, baseURL+apiBenchdata, sess.token, bench)
	if err != nil {
		fmt.Println("Add failed:", err)
		return
	}
	if status != http.StatusCreated {
		fmt.Println("Add failed:", errorMessage(body))
		return
	}
	fmt.Println("Created:", string(body))
}

func edit(client *http.Client, baseURL string, sess *session, scanner *bufio.Scanner, id string) {
	upd := map[string]any{}

	if loc := prompt(scanner, "New location (blank to keep): "); loc != "" {
		upd["location"] = loc
	}
	if notes := prompt(scanner, "New notes (blank to keep): "); notes != "" {
		upd["notes"] = notes
	}
	if tags := prompt(scanner, "New tags (comma-separated, blank to keep): "); tags != "" {
		upd["tags"] = splitTags(tags)
	}

	req, err := http.NewRequest(http.MethodPut, baseURL+apiBenchdata+"/"+id, jsonBody(upd))
	if err != nil {
		fmt.Println("Edit failed:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.token)

	body, status, err := do(client, req)
	if err != nil {
		fmt.Println("Edit failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("Edit failed:", errorMessage(body))
		return
	}
	fmt.Println("Updated:", string(body))
}

func del(client *http.Client, baseURL string, sess *session, id string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+apiBenchdata+"/"+id, nil)
	if err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+sess.token)

	body, status, err := do(client, req)
	if err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Println("Delete failed:", errorMessage(body))
		return
	}
	fmt.Println("Deleted:", string(body))
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func jsonBody(v any) io.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

func doPost(client *http.Client, url, token string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = jsonBody(payload)
	}
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(client, req)
}

func doGet(client *http.Client, url, token string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return do(client, req)
}

func do(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return strings.TrimSpace(string(body))
}

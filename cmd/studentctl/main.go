// Command studentctl is a terminal client for the student records API. The
// add flow mirrors the browser form: each field is validated as it is
// entered, and the whole form is re-validated on submit before any network
// call is made.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mwidjaja/student-records-api/internal/form"
)

const (
	exitSuccess    = 0
	exitFailure    = 1
	exitInvalidUse = 2
)

var fieldLabels = map[string]string{
	"studentId":      "Student ID",
	"firstName":      "First name",
	"lastName":       "Last name",
	"email":          "Email",
	"dob":            "Date of birth (YYYY-MM-DD)",
	"department":     "Department",
	"enrollmentYear": "Enrollment year",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("studentctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", "http://localhost:8080", "base URL of the records API")
	if err := fs.Parse(args); err != nil {
		return exitInvalidUse
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: studentctl [-server URL] <list|add|delete>")
		return exitInvalidUse
	}

	client := &apiClient{base: strings.TrimRight(*server, "/"), http: &http.Client{Timeout: 10 * time.Second}}

	switch fs.Arg(0) {
	case "list":
		return cmdList(client, stdout, stderr)
	case "add":
		return cmdAdd(client, stdin, stdout, stderr)
	case "delete":
		if fs.NArg() < 2 {
			fmt.Fprintln(stderr, "usage: studentctl delete <id>")
			return exitInvalidUse
		}
		return cmdDelete(client, fs.Arg(1), stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		return exitInvalidUse
	}
}

func cmdList(client *apiClient, stdout, stderr io.Writer) int {
	students, err := client.list()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
	w := bufio.NewWriter(stdout)
	defer w.Flush()
	fmt.Fprintf(w, "%-38s %-10s %-22s %-28s %s\n", "ID", "STUDENT", "NAME", "EMAIL", "ACTIVE")
	for _, s := range students {
		fmt.Fprintf(w, "%-38s %-10s %-22s %-28s %v\n",
			s.ID, s.StudentID, s.FirstName+" "+s.LastName, s.Email, s.IsActive)
	}
	return exitSuccess
}

func cmdAdd(client *apiClient, stdin io.Reader, stdout, stderr io.Writer) int {
	scanner := bufio.NewScanner(stdin)
	validator := form.NewValidator()
	values := make(map[string]string, len(form.Fields))

	for _, field := range form.Fields {
		for {
			fmt.Fprintf(stdout, "%s: ", fieldLabels[field])
			if !scanner.Scan() {
				fmt.Fprintln(stderr, "input aborted")
				return exitFailure
			}
			value := strings.TrimSpace(scanner.Text())
			validator.Blur(field, value)
			if msg := validator.FieldError(field); msg != "" {
				fmt.Fprintln(stdout, "  ", msg)
				continue
			}
			values[field] = value
			break
		}
	}

	// Submit-time pass over every field, touched or not.
	if !validator.ValidateAll(values) {
		for field, msg := range validator.Errors() {
			fmt.Fprintf(stderr, "%s: %s\n", field, msg)
		}
		return exitFailure
	}

	year, _ := strconv.Atoi(values["enrollmentYear"])
	created, err := client.create(createPayload{
		StudentID:      values["studentId"],
		FirstName:      values["firstName"],
		LastName:       values["lastName"],
		Email:          values["email"],
		DOB:            values["dob"],
		Department:     values["department"],
		EnrollmentYear: year,
	})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
	validator.Reset()
	fmt.Fprintf(stdout, "created %s (%s %s)\n", created.ID, created.FirstName, created.LastName)
	return exitSuccess
}

func cmdDelete(client *apiClient, id string, stdout, stderr io.Writer) int {
	message, err := client.delete(id)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, message)
	return exitSuccess
}

type studentRecord struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsActive  bool   `json:"isActive"`
}

type createPayload struct {
	StudentID      string `json:"studentId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	DOB            string `json:"dob"`
	Department     string `json:"department"`
	EnrollmentYear int    `json:"enrollmentYear"`
}

type apiError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

type apiClient struct {
	base string
	http *http.Client
}

func (c *apiClient) list() ([]studentRecord, error) {
	resp, err := c.http.Get(c.base + "/api/students")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var students []studentRecord
	if err := json.NewDecoder(resp.Body).Decode(&students); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return students, nil
}

func (c *apiClient) create(payload createPayload) (*studentRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.base+"/api/students", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}
	var created studentRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &created, nil
}

func (c *apiClient) delete(id string) (string, error) {
	req, err := http.NewRequest(http.MethodDelete, c.base+"/api/students/"+id, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}
	var confirmation struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return confirmation.Message, nil
}

func decodeError(resp *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if apiErr.Field != "" {
		return fmt.Errorf("%s (field: %s)", apiErr.Message, apiErr.Field)
	}
	return fmt.Errorf("%s", apiErr.Message)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"roombooking/internal/room"
	"roombooking/internal/user"
	"roombooking/pkg/authtoken"
	"roombooking/pkg/config"
	"roombooking/pkg/db"
)

// Walks one booking through the running API: seeds a requester and a staff
// profile, submits a request for the first active room, then approves it.
func main() {
	var (
		baseURL = flag.String("base-url", "", "API base url (defaults to http://localhost<HTTP_ADDR>)")
		date    = flag.String("date", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "booking date (YYYY-MM-DD)")
	)
	flag.Parse()

	cfg := config.Load()
	if cfg.IsProd() {
		fmt.Fprintln(os.Stderr, "devflow must not run with APP_ENV=prod")
		os.Exit(2)
	}
	if *baseURL == "" {
		*baseURL = defaultBaseURL(cfg.HTTPAddr)
	}

	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	users := user.NewRepository(pool)
	requester, err := users.Create(ctx, user.CreateParams{
		ID: uuid.NewString(), Email: "reader@example.com", FullName: "Dev Reader", Institution: "Dev University",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed requester: %v\n", err)
		os.Exit(1)
	}
	staff, err := users.Create(ctx, user.CreateParams{
		ID: uuid.NewString(), Email: "librarian@example.com", FullName: "Dev Librarian",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed staff: %v\n", err)
		os.Exit(1)
	}
	// Roles are granted out of band; the API never promotes users.
	if _, err := pool.Exec(ctx, `UPDATE users SET role = 'staff' WHERE id = $1`, staff.ID); err != nil {
		fmt.Fprintf(os.Stderr, "promote staff: %v\n", err)
		os.Exit(1)
	}

	rooms, err := room.NewRepository(pool).ListActive(ctx)
	if err != nil || len(rooms) == 0 {
		fmt.Fprintf(os.Stderr, "no active rooms (run cmd/dev/seedrooms first): %v\n", err)
		os.Exit(1)
	}
	rm := rooms[0]

	c := client{base: strings.TrimRight(*baseURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	c.requesterTok = mustToken(cfg, requester)
	c.staffTok = mustToken(cfg, staff)

	attendees := rm.Capacity
	if attendees > 10 {
		attendees = 10
	}
	var submitted struct {
		Booking struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"booking"`
	}
	c.post(c.requesterTok, "/v1/bookings", map[string]any{
		"roomId":         rm.ID,
		"startDate":      *date,
		"endDate":        *date,
		"startTime":      "10:00",
		"endTime":        "12:00",
		"eventName":      "Devflow reading circle",
		"attendeesCount": attendees,
	}, &submitted)

	var approved struct {
		Status string `json:"status"`
	}
	c.post(c.staffTok, "/v1/admin/bookings/"+submitted.Booking.ID+"/approve", map[string]string{"note": "approved by devflow"}, &approved)

	fmt.Printf("Flow complete.\n")
	fmt.Printf("room_id=%s room=%q\n", rm.ID, rm.Name)
	fmt.Printf("requester_id=%s staff_id=%s\n", requester.ID, staff.ID)
	fmt.Printf("booking_id=%s status=%s -> %s\n", submitted.Booking.ID, submitted.Booking.Status, approved.Status)
	fmt.Printf("\nRequester token:\n%s\n", c.requesterTok)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  GET %s/v1/bookings/%s/events   (Authorization: Bearer <requester token>)\n", c.base, submitted.Booking.ID)
	fmt.Printf("  GET %s/v1/notifications\n", c.base)
}

type client struct {
	base         string
	http         *http.Client
	requesterTok string
	staffTok     string
}

func (c client) post(token, path string, body, out any) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "POST %s: %v\n", path, err)
		fmt.Fprintf(os.Stderr, "tip: is the API running, and is HTTP_ADDR set correctly? base_url=%s\n", c.base)
		os.Exit(1)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "POST %s status=%d body=%s\n", path, resp.StatusCode, string(raw))
		os.Exit(1)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		fmt.Fprintf(os.Stderr, "decode %s: %v\n", path, err)
		os.Exit(1)
	}
}

func mustToken(cfg config.Config, p *user.Profile) string {
	tok, err := authtoken.Sign(p.ID, p.Email, cfg.Auth.JWTSecret, cfg.Auth.JWTAudience, time.Hour, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token (is AUTH_JWT_SECRET set?): %v\n", err)
		os.Exit(1)
	}
	return tok
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8081"
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}

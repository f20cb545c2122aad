package security

import (
	"fmt"
	"mime"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	applog "moneytracker/internal/log"
)

// Reasons reported by Inspect.
const (
	ReasonPathScan        = "path_scan"
	ReasonScannerAgent    = "scanner_agent"
	ReasonMethod          = "unusual_method"
	ReasonLongURL         = "long_url"
	ReasonReceiptNotForm  = "receipt_not_multipart"
	ReasonReceiptTooLarge = "receipt_too_large"
	ReasonMutationNotJSON = "mutation_not_json"
	ReasonMutationBurst   = "mutation_burst"
)

const maxURLLength = 2048

var (
	scanPatterns = []string{
		"../", "..\\", ".env", ".git", "wp-admin", "phpmyadmin",
		"etc/passwd", "<script", "union select", "cmd.exe",
	}
	scannerAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab"}
)

// DetectorConfig describes the API surface the detector watches.
type DetectorConfig struct {
	// ReceiptPath receives multipart receipt uploads.
	ReceiptPath string
	// MaxReceiptBytes is the largest declared upload accepted on ReceiptPath.
	MaxReceiptBytes int64
	// JSONPrefixes are paths whose POST, PUT and PATCH bodies must be JSON.
	JSONPrefixes []string
	// MutationBurst is how many ledger mutations one client may send per
	// BurstWindow before being flagged. Zero disables burst tracking.
	MutationBurst  int
	BurstWindow    time.Duration
	TrustedProxies []netip.Prefix
}

func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ReceiptPath:     "/api/receipts",
		MaxReceiptBytes: 11 << 20,
		JSONPrefixes:    []string{"/api/transactions", "/api/categories", "/api/filter"},
		MutationBurst:   30,
		BurstWindow:     10 * time.Second,
		TrustedProxies: []netip.Prefix{
			netip.MustParsePrefix("127.0.0.0/8"),
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("172.16.0.0/12"),
			netip.MustParsePrefix("192.168.0.0/16"),
			netip.MustParsePrefix("::1/128"),
		},
	}
}

// DetectionMetrics counts flagged requests per reason.
type DetectionMetrics struct {
	SuspiciousRequests int64
	InvalidIPAttempts  int64
	ByReason           map[string]int64
}

type burst struct {
	start time.Time
	count int
}

// Detector flags requests that look like scanning or abuse of the ledger
// API. It never blocks; the middleware only logs.
type Detector struct {
	cfg     DetectorConfig
	trusted []netip.Prefix
	now     func() time.Time

	mu        sync.Mutex
	bursts    map[string]*burst
	total     int64
	invalidIP int64
	byReason  map[string]int64
}

func NewDetector(cfg DetectorConfig) *Detector {
	d := &Detector{
		cfg:      cfg,
		now:      time.Now,
		bursts:   make(map[string]*burst),
		byReason: make(map[string]int64),
	}
	for _, p := range cfg.TrustedProxies {
		d.trusted = append(d.trusted, p.Masked())
	}
	return d
}

// AddTrustedProxy allows forwarded headers from connections within cidr.
func (d *Detector) AddTrustedProxy(cidr string) error {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
	}
	d.mu.Lock()
	d.trusted = append(d.trusted, p.Masked())
	d.mu.Unlock()
	return nil
}

// Inspect returns the reasons r looks suspicious, empty for a normal request.
func (d *Detector) Inspect(r *http.Request) []string {
	var reasons []string
	add := func(reason string) { reasons = append(reasons, reason) }

	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, p := range scanPatterns {
		if strings.Contains(target, p) {
			add(ReasonPathScan)
			break
		}
	}
	ua := strings.ToLower(r.UserAgent())
	for _, a := range scannerAgents {
		if strings.Contains(ua, a) {
			add(ReasonScannerAgent)
			break
		}
	}
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", http.MethodConnect:
		add(ReasonMethod)
	}
	if len(r.URL.String()) > maxURLLength {
		add(ReasonLongURL)
	}

	if isMutation(r.Method) {
		switch {
		case d.cfg.ReceiptPath != "" && r.URL.Path == d.cfg.ReceiptPath:
			if mediaType(r) != "multipart/form-data" {
				add(ReasonReceiptNotForm)
			}
			if d.cfg.MaxReceiptBytes > 0 && r.ContentLength > d.cfg.MaxReceiptBytes {
				add(ReasonReceiptTooLarge)
			}
		case d.jsonPath(r.URL.Path):
			if r.ContentLength != 0 && mediaType(r) != "application/json" {
				add(ReasonMutationNotJSON)
			}
		}
		if d.jsonPath(r.URL.Path) && d.countMutation(d.ExtractClientIP(r)) {
			add(ReasonMutationBurst)
		}
	}

	if len(reasons) > 0 {
		d.mu.Lock()
		d.total++
		for _, reason := range reasons {
			d.byReason[reason]++
		}
		d.mu.Unlock()
	}
	return reasons
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func (d *Detector) jsonPath(path string) bool {
	for _, p := range d.cfg.JSONPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// countMutation records one mutation for client and reports whether the
// client went over the burst limit in the current window.
func (d *Detector) countMutation(client string) bool {
	if d.cfg.MutationBurst <= 0 || d.cfg.BurstWindow <= 0 {
		return false
	}
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.bursts[client]
	if !ok || now.Sub(b.start) >= d.cfg.BurstWindow {
		if len(d.bursts) >= 4096 {
			for ip, old := range d.bursts {
				if now.Sub(old.start) >= d.cfg.BurstWindow {
					delete(d.bursts, ip)
				}
			}
		}
		d.bursts[client] = &burst{start: now, count: 1}
		return false
	}
	b.count++
	return b.count > d.cfg.MutationBurst
}

// ExtractClientIP returns the connecting address, or the first forwarded
// address when the connection comes from a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	host := r.RemoteAddr
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		host = ap.Addr().String()
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		d.mu.Lock()
		d.invalidIP++
		d.mu.Unlock()
		return host
	}
	if !d.isTrusted(addr.Unmap()) {
		return addr.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if fwd, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return fwd.String()
		}
	}
	if fwd, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return fwd.String()
	}
	return addr.String()
}

func (d *Detector) isTrusted(addr netip.Addr) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func (d *Detector) GetMetrics() DetectionMetrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	byReason := make(map[string]int64, len(d.byReason))
	for k, v := range d.byReason {
		byReason[k] = v
	}
	return DetectionMetrics{
		SuspiciousRequests: d.total,
		InvalidIPAttempts:  d.invalidIP,
		ByReason:           byReason,
	}
}

// Middleware logs flagged requests and passes every request through.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reasons := d.Inspect(r); len(reasons) > 0 {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				"reasons", strings.Join(reasons, ","),
				applog.FieldClientIP, d.ExtractClientIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
		}
		next.ServeHTTP(w, r)
	})
}

package mexc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"p2p-price-api/internal/exchange"
)

// methodTable maps MEXC payment-method identifiers to display names. The
// table is loaded once on first use and kept for the process lifetime;
// staleness is accepted. A failed load leaves it empty, so the next refresh
// cycle retries implicitly.
type methodTable struct {
	mu    sync.Mutex
	names map[string]string

	url    string
	client *http.Client
	log    *logrus.Entry
}

func newMethodTable(url string, client *http.Client, log *logrus.Entry) *methodTable {
	return &methodTable{
		names:  make(map[string]string),
		url:    url,
		client: client,
		log:    log,
	}
}

// ensureLoaded populates the table from the payment-method endpoint. It is a
// no-op once any entries exist. Load failures are logged, never returned.
func (t *methodTable) ensureLoaded(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.names) > 0 {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		t.log.WithError(err).Warn("payment method request build failed")
		return
	}
	req.Header.Set("User-Agent", exchange.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.mexc.com/buy-crypto/p2p")

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.WithError(err).Warn("payment method load failed")
		return
	}
	body, err := exchange.ReadBody(resp)
	if err != nil {
		t.log.WithError(err).Warn("payment method load failed")
		return
	}

	var parsed paymentMethodResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.log.WithError(err).Warn("payment method response malformed")
		return
	}

	for _, pm := range parsed.Data {
		id := idString(pm.ID)
		if id == "" {
			continue
		}
		t.names[id] = pm.displayName(id)
	}
	t.log.WithField("count", len(t.names)).Info("payment methods loaded")
}

// filterIDs returns a comma-joined list of identifiers whose resolved name
// contains any of the requested generic names, case-insensitively. An empty
// result means "no filter" to the caller, both when no names were requested
// and when the table has not been loaded yet.
func (t *methodTable) filterIDs(names []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(names) == 0 || len(t.names) == 0 {
		return ""
	}

	var ids []string
	for id, resolved := range t.names {
		for _, want := range names {
			if strings.Contains(strings.ToLower(resolved), strings.ToLower(want)) {
				ids = append(ids, id)
				break
			}
		}
	}
	return strings.Join(ids, ",")
}

// methodName resolves an identifier to its display name, with a placeholder
// when the table has no entry for it.
func (t *methodTable) methodName(id string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name, ok := t.names[id]; ok {
		return name
	}
	return fmt.Sprintf("Method %s", id)
}

func idString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"eatsplit/internal/core"
)

func TestLedgerCounters(t *testing.T) {
	c := New()
	c.SetFriends(3)
	c.FriendAdded(core.Friend{ID: "a", Name: "Ada"})
	c.FriendAdded(core.Friend{ID: "b", Name: "Bob"})

	if got := testutil.ToFloat64(c.friendsAdded); got != 2 {
		t.Errorf("friends_added_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.friends); got != 5 {
		t.Errorf("friends gauge = %v, want 5", got)
	}

	c.SplitSubmitted(core.PayerUser)
	c.SplitSubmitted(core.PayerUser)
	c.SplitSubmitted(core.PayerFriend)
	if got := testutil.ToFloat64(c.settlements.WithLabelValues("user")); got != 2 {
		t.Errorf("settlements{payer=user} = %v", got)
	}
	if got := testutil.ToFloat64(c.settlements.WithLabelValues("friend")); got != 1 {
		t.Errorf("settlements{payer=friend} = %v", got)
	}

	c.Rejected("split_bill")
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("split_bill")); got != 1 {
		t.Errorf("rejected{form=split_bill} = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.Settled(core.Friend{ID: "a"}, core.FromUnits(-40))
	c.ObserveRequest(http.MethodPost, "/split", http.StatusOK, 3*time.Millisecond)
	c.RateLimited()

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"eatsplit_settlement_delta_units_sum 40",
		`eatsplit_http_requests_total{method="POST",route="/split",status="200"} 1`,
		"eatsplit_http_rate_limited_total 1",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

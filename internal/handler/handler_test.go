package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/catalog"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/database"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/form"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/notify"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/repository"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/service"
)

var startsAt = time.Date(2026, 3, 10, 9, 0, 0, 0, form.IST)

func newTestServer(t *testing.T) (*httptest.Server, *RegistrationHandler) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.MigrateSQLite(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier := notify.NewNotifier(notify.NewNoopSender(), notify.Details{EventName: "MEREDITH 2K26"})
	svc := service.NewRegistrationService(repository.NewSQLiteLedger(db), notifier, nil)
	if err := svc.InitializeCategories(context.Background()); err != nil {
		t.Fatalf("init categories: %v", err)
	}

	h := NewRegistrationHandler(svc, "Test API", startsAt)
	srv := httptest.NewServer(NewRouter(h, ""))
	t.Cleanup(srv.Close)
	return srv, h
}

const validBody = `{
	"timestamp": "19/10/2026, 3:04:05 pm",
	"fullName": "Asha Rao",
	"collegeName": "XYZ College",
	"age": "20",
	"email": "asha@example.com",
	"contactNumber": "9876543210",
	"cityState": "",
	"selectedEvents": ["Technical Quiz", "UDYAT"]
}`

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	got := decode[model.StatusResponse](t, resp)
	if resp.StatusCode != http.StatusOK || got.Status != model.StatusOK || got.Message != "Test API is running!" {
		t.Errorf("liveness = %d %+v", resp.StatusCode, got)
	}
}

func TestRegister_Success(t *testing.T) {
	srv, _ := newTestServer(t)

	// Browsers in no-cors mode post text/plain.
	resp, err := http.Post(srv.URL+"/", "text/plain;charset=UTF-8", strings.NewReader(validBody))
	if err != nil {
		t.Fatal(err)
	}
	got := decode[model.StatusResponse](t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %+v", resp.StatusCode, got)
	}
	if got.Status != model.StatusSuccess || got.Message != "Registration successful!" || got.ID == "" {
		t.Errorf("response = %+v", got)
	}

	resp, err = http.Get(srv.URL + "/registrations")
	if err != nil {
		t.Fatal(err)
	}
	entries := decode[[]model.Entry](t, resp)
	if len(entries) != 1 {
		t.Fatalf("master log has %d entries", len(entries))
	}
	if entries[0].CityState != model.NotAvailable || entries[0].Age != 20 {
		t.Errorf("stored entry = %+v", entries[0])
	}

	resp, err = http.Get(srv.URL + "/categories/Technical%20Quiz/registrations")
	if err != nil {
		t.Fatal(err)
	}
	if quiz := decode[[]model.Entry](t, resp); len(quiz) != 1 || quiz[0].FullName != "Asha Rao" {
		t.Errorf("Technical Quiz log = %+v", quiz)
	}

	resp, err = http.Get(srv.URL + "/categories/Paper%20Presentation/registrations")
	if err != nil {
		t.Fatal(err)
	}
	if paper := decode[[]model.Entry](t, resp); len(paper) != 0 {
		t.Errorf("Paper Presentation log = %+v", paper)
	}
}

func TestRegister_RegisterAlias(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/register", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRegister_ValidationError(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.Replace(validBody, `"9876543210"`, `"12345"`, 1)
	body = strings.Replace(body, `["Technical Quiz", "UDYAT"]`, `[]`, 1)

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	got := decode[model.StatusResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest || got.Status != model.StatusError {
		t.Fatalf("response = %d %+v", resp.StatusCode, got)
	}
	if got.Errors["contactNumber"] != form.MsgPhone {
		t.Errorf("contactNumber error = %q", got.Errors["contactNumber"])
	}
	if got.Errors["selectedEvents"] != form.MsgNoEvents {
		t.Errorf("selectedEvents error = %q", got.Errors["selectedEvents"])
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{`, `{"age": "twenty"}`, `not json`} {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		got := decode[model.StatusResponse](t, resp)
		if resp.StatusCode != http.StatusBadRequest || got.Status != model.StatusError {
			t.Errorf("%s: response = %d %+v", body, resp.StatusCode, got)
		}
	}
}

func TestRegister_BodyTooLarge(t *testing.T) {
	_, h := newTestServer(t)

	big := `{"fullName": "` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListCategoryRegistrations_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/categories/Chess/registrations")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/categories")
	if err != nil {
		t.Fatal(err)
	}
	cats := decode[[]model.Category](t, resp)
	if len(cats) != len(catalog.Names()) {
		t.Errorf("got %d categories, want %d", len(cats), len(catalog.Names()))
	}
}

func TestEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatal(err)
	}
	list := decode[[]map[string]string](t, resp)
	if len(list) != 11 || list[0]["key"] == "" || list[0]["title"] == "" {
		t.Errorf("events = %v", list)
	}

	resp, err = http.Get(srv.URL + "/events/quiz")
	if err != nil {
		t.Fatal(err)
	}
	d := decode[catalog.Descriptor](t, resp)
	if d.Name != "Technical Quiz" || len(d.Rules) == 0 {
		t.Errorf("quiz descriptor = %+v", d)
	}

	resp, err = http.Get(srv.URL + "/events/chess")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown event status = %d", resp.StatusCode)
	}
}

func TestCountdown(t *testing.T) {
	srv, h := newTestServer(t)
	h.now = func() time.Time { return startsAt.Add(-(26*time.Hour + 3*time.Minute + 4*time.Second)) }

	resp, err := http.Get(srv.URL + "/countdown")
	if err != nil {
		t.Fatal(err)
	}
	got := decode[catalog.Remaining](t, resp)
	want := catalog.Remaining{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
	if got != want {
		t.Errorf("countdown = %+v, want %+v", got, want)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/", nil)
	req.Header.Set("Origin", "https://example.org")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("body = %s", w.Body.String())
	}
}

// The form's HTTP transport against the real intake, in both modes.
func TestFormSubmitsToIntake(t *testing.T) {
	for _, mode := range []form.Mode{form.ModeOpaque, form.ModeStatus} {
		t.Run(mode.String(), func(t *testing.T) {
			srv, _ := newTestServer(t)

			f := form.NewRegistrationForm()
			for name, v := range map[string]string{
				form.FieldFullName:      "Asha Rao",
				form.FieldCollegeName:   "XYZ College",
				form.FieldAge:           "20",
				form.FieldEmail:         "asha@example.com",
				form.FieldContactNumber: "9876543210",
			} {
				if err := f.Set(name, v); err != nil {
					t.Fatal(err)
				}
			}
			f.Check("Technical Quiz")

			o := form.NewOrchestrator(f, form.NewHTTPTransport(srv.URL+"/", mode))
			if got := o.Submit(context.Background()); got != form.OutcomeSuccess {
				t.Fatalf("outcome = %v, banner %+v", got, f.Banner())
			}

			resp, err := http.Get(srv.URL + "/registrations")
			if err != nil {
				t.Fatal(err)
			}
			if entries := decode[[]model.Entry](t, resp); len(entries) != 1 {
				t.Errorf("master log has %d entries", len(entries))
			}
		})
	}
}

package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/config"
	"employeeManagement/internal/metrics"
	"employeeManagement/internal/service"
	"employeeManagement/internal/testutil"
)

const testSecret = "http-secret"

var testAuthCfg = config.AuthConfig{
	JWTSecret:  testSecret,
	JWTIssuer:  testutil.Issuer,
	TokenTTL:   time.Hour,
	BcryptCost: 4,
}

func init() { gin.SetMode(gin.TestMode) }

type memRevoker struct{ revoked map[string]bool }

func (m *memRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.revoked[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

type fakePayslips struct{ names []string }

func (f *fakePayslips) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	_, _ = io.ReadAll(r)
	f.names = append(f.names, name)
	return "http://minio.local/payslips/" + name, nil
}

type testEnv struct {
	router *gin.Engine
	db     *sql.DB
	deps   Deps

	adminEID, managerEID, employeeEID int64
	admin, manager, employee          string
}

func newEnv(t *testing.T, name string, tweak func(*Deps)) *testEnv {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	svc := service.NewAuthService(d, testAuthCfg, &memRevoker{revoked: map[string]bool{}}, nil)
	deps := NewDeps(d, svc, nil)
	if tweak != nil {
		tweak(&deps)
	}
	env := &testEnv{router: NewRouter(deps), db: d, deps: deps}
	env.adminEID = testutil.SeedUser(t, d, "root", "rootpw", "Admin")
	env.managerEID = testutil.SeedUser(t, d, "boss", "bosspw", "Manager")
	env.employeeEID = testutil.SeedUser(t, d, "worker", "workerpw", "Employee")
	env.admin = testutil.GenerateJWTHS256(t, testSecret, "root", "Admin", env.adminEID)
	env.manager = testutil.GenerateJWTHS256(t, testSecret, "boss", "Manager", env.managerEID)
	env.employee = testutil.GenerateJWTHS256(t, testSecret, "worker", "Employee", env.employeeEID)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRootAndHealth(t *testing.T) {
	env := newEnv(t, "http_root", nil)
	rec := env.do(t, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Employee Management System API") {
		t.Fatalf("root: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
	rec = env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSignupAndLogin(t *testing.T) {
	env := newEnv(t, "http_auth", nil)

	rec := env.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "t1", "password": "abcdef", "first_name": "A", "last_name": "B", "email": "a@b.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	var signup struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Username   string `json:"username"`
			RoleName   string `json:"role_name"`
			EmployeeID int64  `json:"employee_id"`
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			Email      string `json:"email"`
		} `json:"user"`
	}
	decode(t, rec, &signup)
	u := signup.User
	if u.Username != "t1" || u.RoleName != "Employee" || u.EmployeeID == 0 || u.FirstName != "A" || u.LastName != "B" || u.Email != "a@b.com" {
		t.Fatalf("unexpected profile: %+v", u)
	}
	if signup.Token == "" || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("signup body must carry a token and no password material: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "t1", "password": "abcdef", "first_name": "A", "last_name": "B", "email": "a@b.com",
	})
	if rec.Code != http.StatusConflict || rec.Body.String() != `{"error":"Username already exists"}` {
		t.Fatalf("duplicate signup: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/signup", "", map[string]string{"username": "t2"})
	if rec.Code != http.StatusBadRequest || rec.Body.String() != `{"error":"All fields are required"}` {
		t.Fatalf("incomplete signup: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "t1", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized || rec.Body.String() != `{"error":"Invalid username or password"}` {
		t.Fatalf("wrong password: %d %s", rec.Code, rec.Body.String())
	}
	unknown := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "ghost", "password": "wrong"})
	if unknown.Code != rec.Code || unknown.Body.String() != rec.Body.String() {
		t.Fatalf("unknown user must be indistinguishable: %d %s", unknown.Code, unknown.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "t1", "password": "abcdef"})
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "password_hash") {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decode(t, rec, &login)
	if login.Message != "Login successful" {
		t.Fatalf("login message = %q", login.Message)
	}

	rec = env.do(t, http.MethodGet, "/api/me", login.Token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"t1"`) {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "t1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSignup_PrivilegedRoleNeedsAdmin(t *testing.T) {
	env := newEnv(t, "http_signup_roles", nil)
	body := map[string]string{
		"username": "newboss", "password": "abcdef", "first_name": "N", "last_name": "B", "email": "nb@b.com", "role_name": "Manager",
	}
	if rec := env.do(t, http.MethodPost, "/api/signup", "", body); rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous manager signup: %d %s", rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodPost, "/api/signup", env.admin, body)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"role_name":"Manager"`) {
		t.Fatalf("admin-created manager: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodPost, "/api/signup", "not-a-token", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token on signup: %d", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newEnv(t, "http_logout", nil)
	if rec := env.do(t, http.MethodPost, "/api/logout", env.employee, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/api/employees", env.employee, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/employees", env.manager, nil); rec.Code != http.StatusOK {
		t.Fatalf("other sessions must survive: %d", rec.Code)
	}
}

func TestDataRoutesRequireToken(t *testing.T) {
	env := newEnv(t, "http_noauth", nil)
	for _, path := range []string{"/api/employees", "/api/attendance", "/api/leaves", "/api/payroll", "/api/roles", "/api/me"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: %d", path, rec.Code)
		}
	}
	expired := testutil.GenerateExpiredJWT(t, testSecret, "root", "admin")
	if rec := env.do(t, http.MethodGet, "/api/employees", expired, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token accepted: %d", rec.Code)
	}
	forged := testutil.GenerateJWTHS256(t, "other-secret", "root", "admin", env.adminEID)
	if rec := env.do(t, http.MethodGet, "/api/employees", forged, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token accepted: %d", rec.Code)
	}
}

func TestEmployeeRoleGate(t *testing.T) {
	env := newEnv(t, "http_gate", nil)
	before := env.count(t, "employees")
	body := map[string]any{"first_name": "New", "last_name": "Hire", "email": "new@example.com"}

	// The asserted role header is ignored; only the token counts.
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"first_name":"X","last_name":"Y","email":"x@y.z"}`))
	req.Header.Set("Authorization", "Bearer "+env.employee)
	req.Header.Set("user-role", "Admin")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee create: %d %s", rec.Code, rec.Body.String())
	}
	if env.count(t, "employees") != before {
		t.Fatalf("forbidden create mutated the store")
	}

	for _, tok := range []string{env.admin, env.manager} {
		rec := env.do(t, http.MethodPost, "/api/employees", tok, body)
		if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "Employee created successfully") {
			t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
		}
	}
	var created struct {
		EmployeeID int64 `json:"employee_id"`
	}
	decode(t, env.do(t, http.MethodPost, "/api/employees", env.admin, body), &created)
	path := "/api/employees/" + itoa(created.EmployeeID)

	update := map[string]any{"first_name": "New", "last_name": "Hire", "email": "new@example.com", "city": "Pune", "termination_date": "", "hire_date": "2020-01-15"}
	if rec := env.do(t, http.MethodPut, path, env.manager, update); rec.Code != http.StatusForbidden {
		t.Fatalf("manager update: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, path, env.manager, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("manager delete: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, path, env.admin, update); rec.Code != http.StatusOK {
		t.Fatalf("admin update: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, path, env.employee, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"city":"Pune"`) || !strings.Contains(rec.Body.String(), `"hire_date":"2020-01-15"`) {
		t.Fatalf("get after update: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodDelete, path, env.admin, nil); rec.Code != http.StatusOK {
		t.Fatalf("admin delete: %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, path, env.admin, nil)
	if rec.Code != http.StatusNotFound || rec.Body.String() != `{"error":"Employee not found"}` {
		t.Fatalf("deleted employee: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodPut, "/api/employees/99999", env.admin, update); rec.Code != http.StatusNotFound {
		t.Fatalf("update unknown: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/employees/99999", env.admin, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete unknown: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/employees", env.admin, map[string]any{"first_name": "only"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete employee: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/employees/abc", env.admin, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", rec.Code)
	}
}

func TestEmployeeListPagination(t *testing.T) {
	env := newEnv(t, "http_paging", nil)
	// Three seeded users already have employee rows; add two more.
	for _, n := range []string{"p1", "p2"} {
		if rec := env.do(t, http.MethodPost, "/api/employees", env.admin, map[string]any{"first_name": n, "last_name": "x", "email": n + "@x.io"}); rec.Code != http.StatusCreated {
			t.Fatalf("create: %d", rec.Code)
		}
	}

	var seen []map[string]any
	token := ""
	for pages := 0; pages < 5; pages++ {
		path := "/api/employees?page_size=2"
		if token != "" {
			path += "&page_token=" + token
		}
		rec := env.do(t, http.MethodGet, path, env.employee, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
		}
		var page []map[string]any
		decode(t, rec, &page)
		seen = append(seen, page...)
		token = rec.Header().Get(nextPageHeader)
		if token == "" {
			break
		}
	}
	if len(seen) != 5 {
		t.Fatalf("paged through %d employees, want 5", len(seen))
	}

	if rec := env.do(t, http.MethodGet, "/api/employees?page_token=!!", env.employee, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad token: %d", rec.Code)
	}
	rec := env.do(t, http.MethodGet, "/api/employees", env.employee, nil)
	var all []map[string]any
	decode(t, rec, &all)
	if len(all) != 5 || rec.Header().Get(nextPageHeader) != "" {
		t.Fatalf("unpaged list: %d items, token %q", len(all), rec.Header().Get(nextPageHeader))
	}
}

func TestReferenceData(t *testing.T) {
	env := newEnv(t, "http_reference", nil)
	for _, path := range []string{"/api/departments", "/api/roles", "/api/leave-types", "/api/leaves/types"} {
		rec := env.do(t, http.MethodGet, path, env.employee, nil)
		var list []map[string]any
		decode(t, rec, &list)
		if rec.Code != http.StatusOK || len(list) == 0 {
			t.Fatalf("%s: %d %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestAttendance(t *testing.T) {
	env := newEnv(t, "http_attendance", nil)

	rec := env.do(t, http.MethodPost, "/api/attendance", env.employee, map[string]any{"employee_id": env.employeeEID, "date": "2024-06-03", "status": "Sleeping"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/attendance", env.employee, map[string]any{"employee_id": env.employeeEID, "date": "2024-06-03", "check_in_time": "09:05"})
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "attendance_id") {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/api/attendance", env.manager, map[string]any{"employee_id": 99999, "date": "2024-06-03"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown employee: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/attendance?employee_id="+itoa(env.employeeEID)+"&from=2024-06-01&to=2024-06-30", env.manager, nil)
	var list []map[string]any
	decode(t, rec, &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0]["status"] != "Present" || list[0]["first_name"] != "worker" {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/api/attendance?from=June", env.manager, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date filter: %d", rec.Code)
	}
}

func TestLeaveWorkflow(t *testing.T) {
	env := newEnv(t, "http_leaves", nil)
	req := map[string]any{"leave_type_id": 1, "start_date": "2024-07-01", "end_date": "2024-07-03", "reason": "trip", "status": "Approved"}

	rec := env.do(t, http.MethodPost, "/api/leaves", env.employee, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		LeaveID int64 `json:"leave_id"`
	}
	decode(t, rec, &created)

	other := map[string]any{"employee_id": env.managerEID, "leave_type_id": 1, "start_date": "2024-07-01", "end_date": "2024-07-03"}
	if rec := env.do(t, http.MethodPost, "/api/leaves", env.employee, other); rec.Code != http.StatusForbidden {
		t.Fatalf("employee filing for someone else: %d", rec.Code)
	}
	backwards := map[string]any{"leave_type_id": 1, "start_date": "2024-07-03", "end_date": "2024-07-01"}
	if rec := env.do(t, http.MethodPost, "/api/leaves", env.employee, backwards); rec.Code != http.StatusBadRequest {
		t.Fatalf("end before start: %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/leaves?status=Pending", env.manager, nil)
	var pending []map[string]any
	decode(t, rec, &pending)
	if len(pending) != 1 || pending[0]["employee_id"] != float64(env.employeeEID) || pending[0]["leave_type_name"] == "" {
		t.Fatalf("new request must be pending: %s", rec.Body.String())
	}

	path := "/api/leaves/" + itoa(created.LeaveID)
	if rec := env.do(t, http.MethodPut, path, env.employee, map[string]string{"status": "Approved"}); rec.Code != http.StatusForbidden {
		t.Fatalf("employee approving: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, path, env.manager, map[string]string{"status": "Maybe"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d", rec.Code)
	}
	rec = env.do(t, http.MethodPut, path, env.manager, map[string]string{"status": "Approved"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Leave request updated successfully") {
		t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}
	var approvedBy int64
	if err := env.db.QueryRow(`SELECT approved_by FROM leave_requests WHERE leave_id = ?`, created.LeaveID).Scan(&approvedBy); err != nil || approvedBy != env.managerEID {
		t.Fatalf("approved_by = %d (%v), want %d", approvedBy, err, env.managerEID)
	}
	rec = env.do(t, http.MethodPut, "/api/leaves/99999", env.admin, map[string]string{"status": "Rejected"})
	if rec.Code != http.StatusNotFound || rec.Body.String() != `{"error":"Leave request not found"}` {
		t.Fatalf("unknown leave: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPayroll(t *testing.T) {
	env := newEnv(t, "http_payroll", nil)
	body := map[string]any{"employee_id": env.employeeEID, "basic_salary": 30000, "hra": 5000, "provident_fund": 1800, "payment_date": "2024-05-31"}

	if rec := env.do(t, http.MethodPost, "/api/payroll", env.employee, body); rec.Code != http.StatusForbidden {
		t.Fatalf("employee creating payroll: %d", rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/payroll", env.manager, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		PayrollID int64   `json:"payroll_id"`
		NetSalary float64 `json:"net_salary"`
	}
	decode(t, rec, &created)
	if created.NetSalary != 33200 {
		t.Fatalf("net salary = %v, want 33200", created.NetSalary)
	}
	if rec := env.do(t, http.MethodPost, "/api/payroll", env.manager, map[string]any{"employee_id": env.employeeEID}); rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete payroll: %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/payroll?employee_id="+itoa(env.employeeEID), env.employee, nil)
	var list []map[string]any
	decode(t, rec, &list)
	if len(list) != 1 || list[0]["da"] != float64(0) {
		t.Fatalf("list: %s", rec.Body.String())
	}

	rec = uploadPayslip(t, env, created.PayrollID, env.manager)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("upload without storage: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPayslipUpload(t *testing.T) {
	store := &fakePayslips{}
	env := newEnv(t, "http_payslip", func(d *Deps) { d.Payslips = store })
	rec := env.do(t, http.MethodPost, "/api/payroll", env.admin, map[string]any{"employee_id": env.employeeEID, "basic_salary": 1000, "payment_date": "2024-05-31"})
	var created struct {
		PayrollID int64 `json:"payroll_id"`
	}
	decode(t, rec, &created)

	rec = uploadPayslip(t, env, created.PayrollID, env.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	if len(store.names) != 1 || !strings.HasPrefix(store.names[0], "payroll/"+itoa(created.PayrollID)+"/") || !strings.HasSuffix(store.names[0], ".pdf") {
		t.Fatalf("unexpected object names: %v", store.names)
	}
	var url string
	if err := env.db.QueryRow(`SELECT payslip_url FROM payroll WHERE payroll_id = ?`, created.PayrollID).Scan(&url); err != nil || !strings.HasPrefix(url, "http://minio.local/payslips/") {
		t.Fatalf("payslip_url = %q (%v)", url, err)
	}

	if rec := uploadPayslip(t, env, 99999, env.admin); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown payroll: %d", rec.Code)
	}
	if rec := uploadPayslip(t, env, created.PayrollID, env.employee); rec.Code != http.StatusForbidden {
		t.Fatalf("employee upload: %d", rec.Code)
	}
}

func uploadPayslip(t *testing.T, env *testEnv, id int64, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "May.PDF")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4 payslip"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/payroll/"+itoa(id)+"/payslip", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	env := newEnv(t, "http_metrics", func(d *Deps) { d.Metrics = m })
	env.do(t, http.MethodGet, "/api/roles", env.employee, nil)
	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `route="/api/roles"`) {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ems_db_up 0") {
		t.Fatalf("db_up should start at 0 before any health check")
	}

	if rec := env.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(rec.Body.String(), "ems_db_up 1") {
		t.Fatalf("healthz must record the database as up")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := encodeCursor(42)
	if strings.ContainsAny(token, "=+/") {
		t.Fatalf("cursor token should be raw base64 url without padding: %q", token)
	}
	id, err := decodeCursor(token)
	if err != nil || id != 42 {
		t.Fatalf("decode: %d %v", id, err)
	}
	if _, err := decodeCursor("Zm9v"); err == nil {
		t.Fatalf("expected error for foreign token")
	}
}

package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/highschool/scheduler/core/utilization"
	testutil "github.com/highschool/scheduler/tests"
)

func Test_courseApi(t *testing.T) {
	e := setup(t)
	sd := e.seedCatalog(t)

	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	token := getToken(t, student)

	tests := []httpTest{
		{
			name: "anonymous is rejected", path: "/api/courses",
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "full catalog", path: "/api/courses",
			token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, sd.math101, sd.math201, sd.art101),
		},
		{
			name: "fall catalog", path: "/api/courses?semester_order=1",
			token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, sd.math101, sd.math201, sd.art101),
		},
		{
			name: "spring catalog is empty", path: "/api/courses?semester_order=2",
			token: token, wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
		{
			name: "retrieve", path: fmt.Sprintf("/api/courses/%d", sd.math201.ID),
			token: token, wantCode: http.StatusOK, wantData: marchallObj(t, sd.math201),
		},
		{
			name: "classrooms", path: "/api/classrooms",
			token: token, wantCode: http.StatusOK, wantData: marchallList(t, sd.room),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("unknown course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/courses/999", token)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
	t.Run("bad semester_order", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/courses?semester_order=fall", token)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})
}

func Test_semesterApi(t *testing.T) {
	e := setup(t)

	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	token := getToken(t, student)

	t.Run("no active semester", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/semesters/active", token)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	sem := e.seedSemester()

	tests := []httpTest{
		{
			name: "query", path: "/api/semesters",
			token: token, wantCode: http.StatusOK, wantData: marchallList(t, sem),
		},
		{
			name: "active", path: "/api/semesters/active",
			token: token, wantCode: http.StatusOK, wantData: marchallObj(t, sem),
		},
		{
			name: "retrieve", path: fmt.Sprintf("/api/semesters/%d", sem.ID),
			token: token, wantCode: http.StatusOK, wantData: marchallObj(t, sem),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_utilizationApi(t *testing.T) {
	e := setup(t)
	sd := e.seedCatalog(t)
	e.addSection(sd.math201, sd, "MONDAY", "09:00", "10:00")

	admin := e.createAdmin(t)
	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/utilization")
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})
	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/utilization", getToken(t, student))
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})
	t.Run("teacher gets the report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/utilization", getToken(t, sd.mathTeacher))
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})
	t.Run("admin gets the report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/utilization", getToken(t, admin))
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var report utilization.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshalling report failed: %v", err)
		}
		if len(report.Teachers) != 1 || report.Teachers[0].Label != sd.mathTeacher.Name {
			t.Errorf("Teachers = %+v; want Morgan Lee only", report.Teachers)
		}
		if report.Summary.BusiestDay != "MONDAY" {
			t.Errorf("BusiestDay = %q; want MONDAY", report.Summary.BusiestDay)
		}
	})
}

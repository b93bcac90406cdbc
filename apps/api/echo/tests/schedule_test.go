package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/timetable"
	testutil "github.com/highschool/scheduler/tests"
)

func Test_scheduleApi_generate(t *testing.T) {
	e := setup(t)
	e.seedCatalog(t)

	admin := e.createAdmin(t)
	teacher, err := e.usrRepo.GetUserByUsername("morganl")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/schedule/generate")
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})
	t.Run("teacher is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/schedule/generate", teacherToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})
	t.Run("admin generates the schedule", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/schedule/generate", adminToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		var sections []schedule.Section
		if err := json.Unmarshal(rec.Body.Bytes(), &sections); err != nil {
			t.Fatalf("unmarshalling sections failed: %v", err)
		}
		if len(sections) == 0 {
			t.Error("expected generated sections, got none")
		}
		for _, sec := range sections {
			if sec.ID == 0 {
				t.Errorf("section %q was not persisted", sec.CourseCode)
			}
		}
	})
	t.Run("events reflect the generated schedule", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/schedule", teacherToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var events []timetable.ScheduleEvent
		if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
			t.Fatalf("unmarshalling events failed: %v", err)
		}
		if len(events) == 0 {
			t.Error("expected schedule events, got none")
		}
	})
	t.Run("admin resets the schedule", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/schedule/reset", adminToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/api/schedule", teacherToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var events []timetable.ScheduleEvent
		if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
			t.Fatalf("unmarshalling events failed: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("expected no events after reset, got %d", len(events))
		}
	})
}

func Test_scheduleApi_timetable(t *testing.T) {
	e := setup(t)
	sd := e.seedCatalog(t)
	e.addSection(sd.math201, sd, "MONDAY", "09:00", "10:00")

	admin := e.createAdmin(t)
	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, sd.mathTeacher)
	studentToken := getToken(t, student)

	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/schedule/timetable", studentToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})
	t.Run("teacher sees their own week", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/schedule/timetable?anchor=2024-09-02", teacherToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var grid timetable.Grid
		if err := json.Unmarshal(rec.Body.Bytes(), &grid); err != nil {
			t.Fatalf("unmarshalling grid failed: %v", err)
		}
		if grid.WeekStart != "2024-09-02" {
			t.Errorf("WeekStart = %q; want 2024-09-02", grid.WeekStart)
		}
		if len(grid.Rows) == 0 || len(grid.Rows[0].Cells) == 0 {
			t.Fatal("expected a populated grid")
		}
		cell := grid.Rows[0].Cells[0] // MONDAY 09:00
		if len(cell) != 1 || cell[0].CourseName != "Algebra II" {
			t.Errorf("MONDAY 09:00 cell = %+v; want Algebra II", cell)
		}
	})
	t.Run("art teacher's week is empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/schedule/timetable?anchor=2024-09-02", getToken(t, sd.artTeacher))
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var grid timetable.Grid
		if err := json.Unmarshal(rec.Body.Bytes(), &grid); err != nil {
			t.Fatalf("unmarshalling grid failed: %v", err)
		}
		for _, row := range grid.Rows {
			for _, cell := range row.Cells {
				if len(cell) != 0 {
					t.Errorf("expected an empty grid; found %+v", cell)
				}
			}
		}
	})
	t.Run("admin picks a teacher", func(t *testing.T) {
		path := "/api/schedule/timetable?anchor=2024-09-02&teacher_id=" + sd.mathTeacher.ID
		req, rec := newAuthRequest(http.MethodGet, path, adminToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})
	t.Run("admin with a non-teacher id gets 404", func(t *testing.T) {
		path := "/api/schedule/timetable?anchor=2024-09-02&teacher_id=" + student.ID
		req, rec := newAuthRequest(http.MethodGet, path, adminToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
}

func Test_scheduleApi_sections(t *testing.T) {
	e := setup(t)
	sd := e.seedCatalog(t)
	sec := e.addSection(sd.math201, sd, "MONDAY", "09:00", "10:00")

	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	token := getToken(t, student)

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/course-sections/%d", sec.ID), token)
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, sec)}, rec)
	})
	t.Run("unknown section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/course-sections/999", token)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
	t.Run("eligible dates span the semester's weeks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/course-sections/%d/eligible-dates", sec.ID), token)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var dates []string
		if err := json.Unmarshal(rec.Body.Bytes(), &dates); err != nil {
			t.Fatalf("unmarshalling dates failed: %v", err)
		}
		if len(dates) != 16 { // Mondays between Sep 2 and Dec 20 2024
			t.Errorf("len(dates) = %d; want 16", len(dates))
		}
		if len(dates) > 0 && dates[0] != "2024-09-02" {
			t.Errorf("dates[0] = %q; want 2024-09-02", dates[0])
		}
	})
}

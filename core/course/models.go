package course

// Course types
const (
	TypeCore     = "core"
	TypeElective = "elective"
)

// Course is a catalog entry. PrerequisiteID self-references the catalog; 0
// means no prerequisite. Specialization ties a course to the teachers who may
// teach it, RoomType to the classrooms it may occupy.
type Course struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Credits        int    `json:"credits"`
	HoursPerWeek   int    `json:"hours_per_week"`
	PrerequisiteID int64  `json:"prerequisite_id,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	RoomType       string `json:"room_type,omitempty"`
	SemesterOrder  int    `json:"semester_order"` // 1 = Fall, 2 = Spring
	GradeLevelMin  int    `json:"grade_level_min"`
	GradeLevelMax  int    `json:"grade_level_max"`
	CourseType     string `json:"course_type"`
}

// ForGradeLevel reports whether a student at the given grade level may take
// the course.
func (c Course) ForGradeLevel(level int) bool {
	return level >= c.GradeLevelMin && level <= c.GradeLevelMax
}

// HasPrerequisite reports whether the course requires another course first.
func (c Course) HasPrerequisite() bool { return c.PrerequisiteID != 0 }

package course

import "gorm.io/gorm"

// Lesson is an addressable unit of course content and the unit of
// completion tracking. Progress is derived from the count of published,
// non-deleted lessons of the course.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Body        string `json:"body" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // lesson order in course
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

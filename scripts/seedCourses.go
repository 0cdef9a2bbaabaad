package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// Seeds the course catalog from a CSV export. Each row describes one
// lesson; courses are created on first sight of their title. Expected
// headers: courseTitle, courseDescription, author, durationHours, price,
// lessonTitle, lessonBody, videoUrl, orderIndex.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("CourseCatalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	courseIDs := make(map[string]uint)
	coursesCreated := 0
	lessonsInserted := 0
	lessonsUpdated := 0
	skipped := 0

	for _, row := range records[1:] {
		courseTitle := getField(row, headerIndex, "courseTitle")
		lessonTitle := getField(row, headerIndex, "lessonTitle")

		if courseTitle == "" || lessonTitle == "" {
			skipped++
			continue
		}

		courseID, ok := courseIDs[courseTitle]
		if !ok {
			var existing courseModels.Course
			result := database.Database.Db.Where("title = ? AND is_deleted = ?", courseTitle, false).First(&existing)
			if result.Error != nil {
				newCourse := courseModels.Course{
					Title:       courseTitle,
					Description: getField(row, headerIndex, "courseDescription"),
					Author:      getField(row, headerIndex, "author"),
					Duration:    int64(parseInt(getField(row, headerIndex, "durationHours"))),
					Price:       parseFloat(getField(row, headerIndex, "price")),
					Status:      "DRAFT",
				}
				if err := database.Database.Db.Create(&newCourse).Error; err != nil {
					log.Printf("Error inserting course %q: %v", courseTitle, err)
					skipped++
					continue
				}
				coursesCreated++
				courseID = newCourse.ID
			} else {
				courseID = existing.ID
			}
			courseIDs[courseTitle] = courseID
		}

		lesson := courseModels.Lesson{
			CourseID:   courseID,
			Title:      lessonTitle,
			Body:       getField(row, headerIndex, "lessonBody"),
			VideoURL:   getField(row, headerIndex, "videoUrl"),
			OrderIndex: parseInt(getField(row, headerIndex, "orderIndex")),
		}

		var existing courseModels.Lesson
		result := database.Database.Db.Where("course_id = ? AND title = ?", courseID, lessonTitle).First(&existing)
		if result.Error != nil {
			if err := database.Database.Db.Create(&lesson).Error; err != nil {
				log.Printf("Error inserting lesson %q (course=%d): %v", lessonTitle, courseID, err)
				continue
			}
			lessonsInserted++
		} else {
			existing.Body = lesson.Body
			existing.VideoURL = lesson.VideoURL
			existing.OrderIndex = lesson.OrderIndex
			if err := database.Database.Db.Save(&existing).Error; err != nil {
				log.Printf("Error updating lesson %q (course=%d): %v", lessonTitle, courseID, err)
				continue
			}
			lessonsUpdated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Courses created: %d", coursesCreated)
	log.Printf("Lessons inserted: %d", lessonsInserted)
	log.Printf("Lessons updated: %d", lessonsUpdated)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

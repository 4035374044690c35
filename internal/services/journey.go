package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/exam-sarathi/learning-service/internal/models"
)

// The journey derivations below are pure: chapter/subject state is a
// function of the syllabus tree and the stored progress records, nothing
// else. They are recomputed on every read, never cached.
//
// There are deliberately two distinct notions of a "done" chapter:
//   - IsChapterFullyComplete drives the chapter card state (tutorial done,
//     test taken, best score at least passing);
//   - IsChapterTutorialComplete drives subject percentages and subject
//     unlock gates (tutorial done is enough).
// The split mirrors observed product behavior; collapsing the two would
// silently change unlock gating.

// IsChapterFullyComplete reports whether a chapter counts as completed on
// its own card.
func IsChapterFullyComplete(progress *models.ChapterProgress, policy ScoringPolicy) bool {
	return progress != nil &&
		progress.TutorialCompleted &&
		progress.TestsAttempted > 0 &&
		progress.BestScore >= policy.PassPercent
}

// IsChapterTutorialComplete reports whether a chapter counts toward subject
// and exam completion percentages.
func IsChapterTutorialComplete(progress *models.ChapterProgress) bool {
	return progress != nil && progress.TutorialCompleted
}

// DeriveChapterStatus computes the unlock state of the chapter at index
// within its subject's ordered chapter list. A missing progress record is
// treated the same as one with TutorialCompleted=false.
func DeriveChapterStatus(chapters []models.SyllabusChapter, progressByChapterID map[string]*models.ChapterProgress, index int, policy ScoringPolicy) (models.ChapterState, error) {
	if index < 0 || index >= len(chapters) {
		return "", fmt.Errorf("chapter index %d outside [0,%d)", index, len(chapters))
	}

	if IsChapterFullyComplete(progressByChapterID[chapters[index].ChapterID], policy) {
		return models.ChapterCompleted, nil
	}

	// First chapter of a subject is always reachable.
	if index == 0 {
		return models.ChapterCurrent, nil
	}

	if IsChapterTutorialComplete(progressByChapterID[chapters[index-1].ChapterID]) {
		return models.ChapterCurrent, nil
	}
	return models.ChapterLocked, nil
}

// SubjectProgress is the tutorial-completion tally for one subject.
type SubjectProgress struct {
	CompletedChapters int `json:"completedChapters"`
	TotalChapters     int `json:"totalChapters"`
	Percentage        int `json:"percentage"`
}

// CalculateSubjectProgress counts tutorial-complete chapters in a subject.
func CalculateSubjectProgress(subject models.SyllabusSubject, progressByChapterID map[string]*models.ChapterProgress) SubjectProgress {
	progress := SubjectProgress{TotalChapters: len(subject.Chapters)}
	for _, chapter := range subject.Chapters {
		if IsChapterTutorialComplete(progressByChapterID[chapter.ChapterID]) {
			progress.CompletedChapters++
		}
	}
	progress.Percentage = percentageOf(progress.CompletedChapters, progress.TotalChapters)
	return progress
}

// IsSubjectUnlocked reports whether the subject at index may be entered.
// The first subject is always open; later subjects unlock once at least
// half of the previous subject's tutorials are complete.
func IsSubjectUnlocked(subjects []models.SyllabusSubject, progressByChapterID map[string]*models.ChapterProgress, index int) bool {
	if index <= 0 {
		return true
	}
	if index >= len(subjects) {
		return false
	}

	previous := CalculateSubjectProgress(subjects[index-1], progressByChapterID)
	if previous.TotalChapters == 0 {
		return false
	}
	return float64(previous.CompletedChapters)/float64(previous.TotalChapters) >= 0.5
}

// CalculateOverallExamProgress is the tutorial-completion percentage across
// every chapter of the exam.
func CalculateOverallExamProgress(syllabus *models.Syllabus, progressByChapterID map[string]*models.ChapterProgress) int {
	total := 0
	completed := 0
	for _, subject := range syllabus.Subjects {
		for _, chapter := range subject.Chapters {
			total++
			if IsChapterTutorialComplete(progressByChapterID[chapter.ChapterID]) {
				completed++
			}
		}
	}
	return percentageOf(completed, total)
}

// CalculateExamCompletion is the stricter completion ratio shown on exam
// cards: chapters with the tutorial done and at least one test attempt,
// over the exam's total chapter count.
func CalculateExamCompletion(progressByChapterID map[string]*models.ChapterProgress, totalChapters int) int {
	completed := 0
	for _, progress := range progressByChapterID {
		if progress != nil && progress.TutorialCompleted && progress.TestsAttempted > 0 {
			completed++
		}
	}
	return percentageOf(completed, totalChapters)
}

// BuildRecentActivity flattens chapter progress into a feed of tutorial
// completions and latest test attempts, most recent first. Only the latest
// attempt per chapter appears; records without a date sort as oldest.
func BuildRecentActivity(exams []*models.ExamProgress, chaptersByExamID map[string][]*models.ChapterProgress, limit int, policy ScoringPolicy) []models.ActivityEvent {
	activity := make([]models.ActivityEvent, 0)

	for _, exam := range exams {
		for _, chapter := range chaptersByExamID[exam.ExamID] {
			if chapter.TutorialCompletedAt != nil {
				activity = append(activity, models.ActivityEvent{
					ID:          fmt.Sprintf("tutorial-%s-%s", exam.ExamID, chapter.ChapterID),
					Type:        models.ActivityTutorial,
					ExamID:      exam.ExamID,
					ExamName:    exam.ExamName,
					ChapterID:   chapter.ChapterID,
					ChapterName: chapter.ChapterName,
					Date:        chapter.TutorialCompletedAt,
				})
			}
			if chapter.LastAttemptAt != nil {
				activity = append(activity, models.ActivityEvent{
					ID:          fmt.Sprintf("test-%s-%s-%d", exam.ExamID, chapter.ChapterID, chapter.TestsAttempted),
					Type:        models.ActivityTest,
					ExamID:      exam.ExamID,
					ExamName:    exam.ExamName,
					ChapterID:   chapter.ChapterID,
					ChapterName: chapter.ChapterName,
					Score:       chapter.LastAttemptScore,
					Stars:       policy.Stars(chapter.LastAttemptScore),
					Date:        chapter.LastAttemptAt,
				})
			}
		}
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activityDate(activity[i]).After(activityDate(activity[j]))
	})

	if limit > 0 && len(activity) > limit {
		activity = activity[:limit]
	}
	return activity
}

func activityDate(event models.ActivityEvent) time.Time {
	if event.Date == nil {
		return time.Time{}
	}
	return *event.Date
}

// AggregateStatistics folds all of a user's progress records into the
// profile statistics block. Average score is the mean of last-attempt
// scores over chapters that have at least one attempt.
func AggregateStatistics(exams []*models.ExamProgress, chaptersByExamID map[string][]*models.ChapterProgress, policy ScoringPolicy) models.UserStatistics {
	stats := models.UserStatistics{TotalExams: len(exams)}

	scoreSum := 0
	scoreCount := 0
	for _, exam := range exams {
		stats.TotalStudyTime += exam.TotalTimeSpent
		for _, chapter := range chaptersByExamID[exam.ExamID] {
			if chapter.TutorialCompleted {
				stats.TotalChaptersCompleted++
			}
			if chapter.TestsAttempted > 0 {
				stats.TotalTestsAttempted += chapter.TestsAttempted
				scoreSum += chapter.LastAttemptScore
				scoreCount++
				if chapter.BestScore >= policy.ThreeStar {
					stats.ThreeStarTests++
				}
			}
		}
	}

	if scoreCount > 0 {
		stats.AverageScore = int(float64(scoreSum)/float64(scoreCount) + 0.5)
	}
	return stats
}

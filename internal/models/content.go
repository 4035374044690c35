package models

// Content documents are authored offline and served as static JSON by the
// content repository. The service only ever reads them; identifiers inside
// them (examId, subjectId, chapterId) are the join keys into progress records.

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type SlideType string

const (
	SlideContent  SlideType = "content"
	SlideConcept  SlideType = "concept"
	SlideFormula  SlideType = "formula"
	SlideQuestion SlideType = "question"
)

// DefaultQuestionMarks is applied when a question document omits marks.
const DefaultQuestionMarks = 2

// ExamCatalog is one exam-list document, partitioned by education level.
type ExamCatalog struct {
	Level string `json:"level"`
	Exams []Exam `json:"exams"`
}

type Exam struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ConductedBy string `json:"conductedBy"`
	Eligibility string `json:"eligibility"`
	Popular     bool   `json:"popular"`
	Description string `json:"description"`
}

// Syllabus is the ordered subject/chapter tree for one exam.
type Syllabus struct {
	ExamID   string            `json:"examId"`
	ExamName string            `json:"examName"`
	Subjects []SyllabusSubject `json:"subjects"`
}

type SyllabusSubject struct {
	SubjectID   string            `json:"subjectId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Chapters    []SyllabusChapter `json:"chapters"`
}

type SyllabusChapter struct {
	ChapterID string   `json:"chapterId"`
	Name      string   `json:"name"`
	Order     int      `json:"order"`
	Topics    []string `json:"topics"`
}

// TotalChapters counts chapters across all subjects.
func (s *Syllabus) TotalChapters() int {
	total := 0
	for _, subject := range s.Subjects {
		total += len(subject.Chapters)
	}
	return total
}

// Tutorial is one chapter's slide deck.
type Tutorial struct {
	ChapterID   string          `json:"chapterId"`
	ChapterName string          `json:"chapterName"`
	SubjectID   string          `json:"subjectId"`
	ExamID      string          `json:"examId"`
	Slides      []TutorialSlide `json:"slides"`
}

type TutorialSlide struct {
	SlideNumber int       `json:"slideNumber"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        SlideType `json:"type"`
	Question    *Question `json:"question,omitempty"`
}

// TestPaper is one chapter's timed multiple-choice test document.
// An empty Questions slice is a valid "not yet available" state.
type TestPaper struct {
	ExamID         string     `json:"examId"`
	SubjectID      string     `json:"subjectId"`
	ChapterID      string     `json:"chapterId"`
	ChapterName    string     `json:"chapterName"`
	TotalQuestions int        `json:"totalQuestions"`
	TotalMarks     int        `json:"totalMarks"`
	Duration       int        `json:"duration"` // minutes
	Questions      []Question `json:"questions"`
}

type Question struct {
	QuestionNumber int             `json:"questionNumber"`
	QuestionText   string          `json:"questionText"`
	Options        []string        `json:"options"`
	CorrectAnswer  int             `json:"correctAnswer"` // index into Options
	Explanation    string          `json:"explanation"`
	Difficulty     DifficultyLevel `json:"difficulty"`
	Marks          int             `json:"marks"`
}

// AnswerMap maps a zero-based question index to the selected option index.
// A nil value (or absent key) means the question was left unanswered.
type AnswerMap map[int]*int

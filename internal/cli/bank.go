package cli

import "lan-quiz-server/internal/domain"

// defaultBank provides a built-in question set so the server is playable
// without Postgres; swap in the database loader for real content.
func defaultBank() []domain.Question {
	return []domain.Question{
		{
			ID:         1,
			Category:   "Digital Pedagogy",
			Difficulty: "basic",
			Prompt:     "What does the acronym TPACK stand for?",
			Context:    "This framework describes the knowledge teachers need to integrate technology effectively.",
			Options: []string{
				"Teaching, Planning, Assessment, Curriculum and Knowledge",
				"Technological Pedagogical Content Knowledge",
				"Technology Practice for Advanced Classroom Knowledge",
				"Team Planning and Collaborative Knowledge",
			},
			CorrectIndex: 1,
			Explanation:  "TPACK combines technological, pedagogical and content knowledge into a single framework for technology integration.",
		},
		{
			ID:         2,
			Category:   "Digital Pedagogy",
			Difficulty: "intermediate",
			Prompt:     "In the SAMR model, replacing paper hand-ins with digital uploads and no functional change is classified as:",
			Context:    "SAMR classifies how technology transforms a learning task.",
			Options: []string{
				"Augmentation",
				"Modification",
				"Redefinition",
				"Substitution",
			},
			CorrectIndex: 3,
			Explanation:  "A direct swap with no functional improvement is Substitution, the lowest SAMR level.",
		},
		{
			ID:         3,
			Category:   "Educational Tools",
			Difficulty: "basic",
			Prompt:     "Which tool category is best suited for real-time collaborative writing?",
			Options: []string{
				"Presentation software",
				"Shared cloud documents",
				"Local word processors",
				"Screen recorders",
			},
			CorrectIndex: 1,
			Explanation:  "Shared cloud documents let several students edit the same text simultaneously.",
		},
		{
			ID:         4,
			Category:   "Educational Tools",
			Difficulty: "intermediate",
			Prompt:     "A learning management system (LMS) primarily helps teachers to:",
			Options: []string{
				"Edit video lessons",
				"Organize content, assignments and grades in one place",
				"Design printed worksheets",
				"Measure classroom noise levels",
			},
			CorrectIndex: 1,
			Explanation:  "An LMS centralizes course content, submission workflows and grading.",
		},
		{
			ID:         5,
			Category:   "Digital Assessment",
			Difficulty: "intermediate",
			Prompt:     "Formative assessment with digital quizzes is most valuable when:",
			Options: []string{
				"Results are used to adjust the next lesson",
				"Scores are published on a wall",
				"It replaces all written exams",
				"It is graded strictly",
			},
			CorrectIndex: 0,
			Explanation:  "Formative assessment exists to feed back into teaching decisions, not to rank students.",
		},
		{
			ID:         6,
			Category:   "Digital Assessment",
			Difficulty: "advanced",
			Prompt:     "Which practice strengthens the validity of an online multiple-choice test?",
			Options: []string{
				"Reusing the same question order for everyone",
				"Writing distractors based on common misconceptions",
				"Making every option equally long",
				"Allowing unlimited attempts without feedback",
			},
			CorrectIndex: 1,
			Explanation:  "Distractors built from real misconceptions make the test discriminate understanding, not guessing.",
		},
		{
			ID:         7,
			Category:   "Online Safety",
			Difficulty: "basic",
			Prompt:     "What is the safest way to handle student data in classroom apps?",
			Options: []string{
				"Collect as much as possible for analytics",
				"Share logins across the class",
				"Use only the minimum data the activity requires",
				"Store passwords in a shared spreadsheet",
			},
			CorrectIndex: 2,
			Explanation:  "Data minimization limits exposure when a service is breached or misused.",
		},
		{
			ID:         8,
			Category:   "Online Safety",
			Difficulty: "intermediate",
			Prompt:     "A phishing message aimed at teachers most often tries to obtain:",
			Options: []string{
				"Lesson plans",
				"Institutional account credentials",
				"Classroom seating charts",
				"Projector settings",
			},
			CorrectIndex: 1,
			Explanation:  "Credentials unlock school platforms and the personal data behind them, which is what attackers monetize.",
		},
	}
}

package pipeline

import (
	"encoding/json"
	"fmt"
)

// EquivalenceRules is sent with every gap analysis request.
const EquivalenceRules = `IMPORTANT MATCHING RULES:
1. A requirement is SATISFIED when the resume shows a specific implementation of it:
   - "Machine Learning" is satisfied by libraries like TensorFlow, PyTorch, Scikit-learn, Keras
   - "Data Science" is satisfied by Pandas, NumPy, Matplotlib, Seaborn
   - "Web Development" is satisfied by React, Angular, Vue.js, HTML, CSS, JavaScript
   - "Database" is satisfied by MySQL, PostgreSQL, MongoDB
   - "Cloud Computing" is satisfied by AWS, Azure, GCP

2. Synonyms and variations are matches:
   - "Python programming" = "Python"
   - "JavaScript" = "JS"
   - "Machine Learning" = "ML"
   - "Artificial Intelligence" = "AI"

3. Abbreviations, full forms, punctuation and casing variants are matches:
   - "React.js" = "ReactJS" = "React"
   - "Node.js" = "NodeJS" = "Node"

4. A general skill is PRESENT when specific tools or libraries for that skill appear in the resume.

5. Only mark an item MISSING when there is no direct match, no synonym match and no related technology in the resume.`

func requirementsPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are an experienced career counsellor.
Based on the given job description, provide the key skills and the ATS keywords a candidate must have in their resume.
Use concise noun phrases. Only output the key skills and ATS keywords.

JOB DESCRIPTION:
%s`, jobDescription)
}

func evidencePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an experienced career counsellor.
Based on the given resume, provide the key skills and the ATS keywords that are present in the resume.
Use concise noun phrases. Only output the key skills and ATS keywords.

RESUME:
%s`, resumeText)
}

func gapPrompt(requiredSkills, requiredKeywords, presentSkills, presentKeywords []string) string {
	return fmt.Sprintf(`You are an expert career counsellor analyzing a resume against job requirements.

Job Requirements:
- Required Skills: %s
- Required Keywords: %s

Resume Content:
- Current Skills: %s
- Current Keywords: %s

%s

Identify ONLY the skills and keywords that are genuinely missing (no related evidence found).
Put missing skills in "skills" and missing ATS keywords in "keywords".`,
		formatList(requiredSkills),
		formatList(requiredKeywords),
		formatList(presentSkills),
		formatList(presentKeywords),
		EquivalenceRules,
	)
}

func feedbackPrompt(presentSkills, requiredSkills, missingSkills, missingKeywords []string) string {
	return fmt.Sprintf(`You are a senior career counselor and resume optimization expert with 15+ years of experience.

ANALYSIS DATA:
- Candidate's Current Skills: %s
- Job Required Skills: %s
- Missing Skills: %s
- Missing ATS Keywords: %s

Based on the above data, give the final feedback in brief.`,
		formatList(presentSkills),
		formatList(requiredSkills),
		formatList(missingSkills),
		formatList(missingKeywords),
	)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

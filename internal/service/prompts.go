package service

import (
	"fmt"
	"strings"
)

// Gap buckets between stated experience and stated goal. They size both the
// generated test and the plan structure.
const (
	gapSmall = "small"
	gapLarge = "large"
	gapExtra = "extra_large"
)

// gapBucket sizes the test and plan from the experience text alone: an
// absolute-beginner phrasing means a maximal gap whatever the goal says.
// Weighing the goal's difficulty is left to the model, which gets both
// texts verbatim in every prompt; the bucket only picks length targets.
func gapBucket(experience string) string {
	exp := strings.ToLower(experience)
	for _, kw := range []string{"never", "no experience", "complete beginner", "nothing", "from scratch", "zero"} {
		if strings.Contains(exp, kw) {
			return gapExtra
		}
	}
	for _, kw := range []string{"beginner", "new to", "just started", "basics", "a little", "some "} {
		if strings.Contains(exp, kw) {
			return gapLarge
		}
	}
	return gapSmall
}

func questionTarget(bucket string) int {
	switch bucket {
	case gapExtra:
		return 15
	case gapLarge:
		return 12
	default:
		return 8
	}
}

func moduleTarget(bucket string) string {
	switch bucket {
	case gapExtra:
		return "100 or more"
	case gapLarge:
		return "50 to 70"
	default:
		return "15 to 20"
	}
}

func assessmentPrompt(goal, experience string, target int) string {
	return fmt.Sprintf(`You are an expert curriculum designer building a placement test.

Learner's goal: %s
Learner's experience: %s

Write a placement test of about %d questions that locates exactly where this
learner stands relative to the goal. Rules:
- Never test beyond the stated goal. If the goal is narrow, stay narrow.
- Mix question types and concepts; do not group questions by topic.
- Each question probes one concept on the path from the learner's experience
  to the goal.

Respond with a JSON object:
{
  "topic": "short name for what is being tested",
  "prerequisites": ["concept", ...],
  "questions": [
    {
      "concept": "the concept this question probes",
      "question": "the question text",
      "type": "multiple_choice" | "text" | "scenario",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "correct_answer": "B",
      "explanation": "why the answer is right"
    }
  ]
}
Include "options" and "correct_answer" only for multiple_choice questions.`, goal, experience, target)
}

const jsonOnlyDirective = "\n\nReturn ONLY the JSON object. No prose, no markdown fences, no commentary."

func judgePrompt(questionText, reference, explanation, answer string) string {
	var b strings.Builder
	b.WriteString("You are grading a learner's free-text answer on a placement test.\n\n")
	b.WriteString("Question:\n")
	b.WriteString(questionText)
	b.WriteString("\n\n")
	if reference != "" {
		b.WriteString("Reference answer:\n")
		b.WriteString(reference)
		b.WriteString("\n\n")
	}
	if explanation != "" {
		b.WriteString("Grading notes:\n")
		b.WriteString(explanation)
		b.WriteString("\n\n")
	}
	b.WriteString("Learner's answer:\n")
	b.WriteString(answer)
	b.WriteString("\n\n")
	b.WriteString(`Judge whether the learner's answer demonstrates understanding. Partial but
substantively correct answers count as correct; confidently wrong or empty
answers do not.

Respond with a JSON object:
{"is_correct": true|false, "ideal_answer": "a model answer in 1-3 sentences", "feedback": "one or two sentences for the learner"}`)
	return b.String()
}

// planMarker is where the detailed learning plan is stitched into the
// framework document.
const planMarker = "<!--LEARNING-PLAN-->"

func frameworkPrompt(goal, experience, digest string) string {
	return fmt.Sprintf(`You are writing the opening of a personalized study-plan document in markdown.

Learner's goal: %s
Learner's experience: %s

Diagnostic results:
%s

Write the full document EXCEPT the learning plan itself: a title, a short
assessment of where the learner stands (grounded in the diagnostic results,
citing strong and weak concepts), how to use the plan, and a closing section
with general advice. Where the detailed learning plan belongs, put exactly
this marker on its own line and nothing else:

%s`, goal, experience, digest, planMarker)
}

// modulePlaceholder marks an unfilled module body in the stage-2 skeleton.
const modulePlaceholder = "[[FILL]]"

func structurePrompt(goal, experience, digest, modules string) string {
	return fmt.Sprintf(`You are structuring a personalized learning plan in markdown.

Learner's goal: %s
Learner's experience: %s

Diagnostic results:
%s

Under a "## Learning Plan" heading, lay out an ordered sequence of phases,
each phase containing numbered modules — %s modules in total, sized to carry
this learner from their current level to the goal. Skip anything the
diagnostic shows they already know. For every module write the heading line
only (phase, number, module title) followed by a line containing exactly:

%s

Do not write the module contents yet.`, goal, experience, digest, modules, modulePlaceholder)
}

func contentPrompt(skeleton string) string {
	return fmt.Sprintf(`Below is a learning-plan skeleton. Replace every %s line with exactly three
terse lines for that module:

- Goal: what the learner can do after the module, one line
- Resource: one concrete thing to read, watch or build, one line
- Check: how the learner verifies they got it, one line

Keep every heading unchanged. Output the complete filled plan in markdown.

%s`, modulePlaceholder, skeleton)
}

// planHeadings, in search order, locate the learning-plan section inside
// stage-2 output. When none matches the full text is used.
var planHeadings = []string{
	"## Learning Plan",
	"## Study Plan",
	"## Plan",
	"# Learning Plan",
}

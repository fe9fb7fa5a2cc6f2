package service

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/content/dto"
)

var exampleTemplates = []string{
	"I use %s every day.",
	"This %s is good.",
	"She likes %s.",
	"We talk about %s at school.",
	"Can you show me the %s?",
}

func fallbackExamples(word string, count int) []entity.ExampleSentence {
	out := make([]entity.ExampleSentence, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, entity.ExampleSentence{
			Sentence: fmt.Sprintf(exampleTemplates[i%len(exampleTemplates)], word),
		})
	}
	return out
}

func fallbackStory(topic string, words []string) string {
	if len(words) == 0 {
		return fmt.Sprintf("This is a short story about %s. Every day the students learn something new.", topic)
	}
	return fmt.Sprintf(
		"This is a short story about %s. A student practiced the words %s and used each of them in a sentence. "+
			"By the end of the day they could explain every word to a friend.",
		topic, strings.Join(words, ", "))
}

var fillerOptions = []string{"None of the above", "All of the above", "I am not sure"}

// fallbackQuestions asks for the meaning of each word, with translations of
// other words as distractors.
func fallbackQuestions(words, distractors []entity.Word, limit int) []entity.QuizQuestion {
	pool := make([]string, 0, len(words)+len(distractors))
	for _, w := range append(append([]entity.Word{}, words...), distractors...) {
		pool = append(pool, w.Translation)
	}

	questions := make([]entity.QuizQuestion, 0, limit)
	for _, w := range words[:min(limit, len(words))] {
		options := []string{w.Translation}
		seen := map[string]bool{strings.ToLower(w.Translation): true}
		for _, cand := range append(shuffled(pool), fillerOptions...) {
			if len(options) == 4 {
				break
			}
			key := strings.ToLower(cand)
			if cand == "" || seen[key] {
				continue
			}
			seen[key] = true
			options = append(options, cand)
		}

		rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		correct := 0
		for i, o := range options {
			if o == w.Translation {
				correct = i
			}
		}

		questions = append(questions, entity.QuizQuestion{
			Question: fmt.Sprintf("What does %q mean?", w.English),
			Options:  options,
			Correct:  correct,
		})
	}
	return questions
}

func shuffled(in []string) []string {
	out := append([]string(nil), in...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

var wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*[A-Za-z]`)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true, "you": true,
	"all": true, "any": true, "can": true, "had": true, "her": true, "was": true, "one": true,
	"our": true, "out": true, "has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "would": true, "there": true, "their": true,
	"what": true, "when": true, "which": true, "were": true, "been": true, "into": true, "his": true,
	"she": true, "him": true, "its": true, "who": true, "them": true, "then": true, "than": true,
}

const maxExtracted = 20

// fallbackExtract lists distinct content words of text without translations.
func fallbackExtract(text string) []dto.ExtractedWord {
	out := []dto.ExtractedWord{}
	seen := map[string]bool{}
	for _, m := range wordPattern.FindAllString(text, -1) {
		w := strings.ToLower(m)
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, dto.ExtractedWord{English: w, Category: "general"})
		if len(out) == maxExtracted {
			break
		}
	}
	return out
}

// Copyright 2025 AICam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize splits text into lexical terms for overlap scoring. Latin and
// digit runs become lowercased word terms. Han runs contribute every
// single character plus every adjacent bigram, since Chinese has no word
// boundaries and the dataset vocabulary (圆柱通孔, 底壁铣) is built from
// short compounds. Terms are deduplicated and sorted.
func Tokenize(text string) []string {
	seen := make(map[string]bool)

	var word []rune
	flushWord := func() {
		if len(word) > 0 {
			seen[strings.ToLower(string(word))] = true
			word = word[:0]
		}
	}

	var han []rune
	flushHan := func() {
		for i := range han {
			seen[string(han[i])] = true
			if i+1 < len(han) {
				seen[string(han[i:i+2])] = true
			}
		}
		han = han[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			flushHan()
			word = append(word, r)
		default:
			flushWord()
			flushHan()
		}
	}
	flushWord()
	flushHan()

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Overlap returns the fraction of query terms present in doc terms,
// in [0, 1]. Zero query terms score zero.
func Overlap(queryTerms, docTerms []string) float32 {
	if len(queryTerms) == 0 {
		return 0
	}
	docSet := make(map[string]bool, len(docTerms))
	for _, term := range docTerms {
		docSet[term] = true
	}
	matched := 0
	for _, term := range queryTerms {
		if docSet[term] {
			matched++
		}
	}
	return float32(matched) / float32(len(queryTerms))
}

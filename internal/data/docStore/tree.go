package docStore

import "github.com/akolanti/studypadi/internal/domain/studyModel"

// assembleSections nests ordered chunks and questions under their sections.
func assembleSections(sections []studyModel.Section, chunks []studyModel.Chunk, questions []studyModel.Question) []studyModel.SectionTree {
	trees := make([]studyModel.SectionTree, len(sections))
	position := make(map[string]int, len(sections))
	for i, sec := range sections {
		trees[i] = studyModel.SectionTree{Section: sec, Chunks: []studyModel.Chunk{}, Questions: []studyModel.Question{}}
		position[sec.Id] = i
	}
	for _, c := range chunks {
		if i, ok := position[c.SectionId]; ok {
			trees[i].Chunks = append(trees[i].Chunks, c)
		}
	}
	for _, q := range questions {
		if i, ok := position[q.SectionId]; ok {
			trees[i].Questions = append(trees[i].Questions, q)
		}
	}
	return trees
}

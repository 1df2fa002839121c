package service

import (
	"log"
	"strconv"

	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// NodeAnnotation is the per-node result of one aggregation pass. It lives
// in the Aggregation side-table, never on the node rows themselves, so two
// concurrent report renders cannot see each other's counters.
type NodeAnnotation struct {
	// Display counter. Activities: running count over the whole form,
	// incremented only for non-skip activities. Choices: reset per
	// activity, rendered as letters. Level 1/2 categories: zero-based
	// index within their parent.
	Counter int

	// Effective responsible set: the node's own assigned members, plus
	// all ancestors' when the pass ran with includeAncestors.
	Responsibles map[int64]memberModel.Member
}

// Aggregation holds one pass worth of per-node annotations plus the
// global per-responsible item count.
type Aggregation struct {
	Level1     map[int64]*NodeAnnotation
	Level2     map[int64]*NodeAnnotation
	Activities map[int64]*NodeAnnotation
	Choices    map[int64]*NodeAnnotation

	// How many nodes each member is directly responsible for. A node with
	// three joint responsibles adds one to each of the three.
	ResponsibleCounts map[int64]int
}

func newAnnotation(counter int) *NodeAnnotation {
	return &NodeAnnotation{Counter: counter, Responsibles: map[int64]memberModel.Member{}}
}

func (a *NodeAnnotation) add(members []memberModel.Member) {
	for _, m := range members {
		a.Responsibles[m.MemberID] = m
	}
}

// IDDisplay renders an activity's counter; skip-numbered nodes show the
// previous number with a plus.
func (a *NodeAnnotation) IDDisplay(skipNumbering bool) string {
	n := a.Counter
	if skipNumbering {
		if n < 1 {
			n = 1
		}
		return strconv.Itoa(n) + "+"
	}
	return strconv.Itoa(n)
}

// LetterDisplay renders a choice's counter as a, b, c, ...
func (a *NodeAnnotation) LetterDisplay(skipNumbering bool) string {
	idx := a.Counter - 1
	if idx < 0 {
		idx = 0
	}
	letter := string(rune('a' + idx%26))
	if skipNumbering {
		return letter + "+"
	}
	return letter
}

// Aggregate walks the tree once, assigning display counters and effective
// responsible sets. Ancestor inheritance is opt-in per call: with
// includeAncestors false, a node with no direct responsibles keeps an
// empty effective set even when ancestors have responsibles.
//
// Re-invoking on an already-aggregated tree would double count, so it is
// a logged no-op returning the first pass's result.
func (t *FormTree) Aggregate(includeAncestors bool) *Aggregation {
	if t.agg != nil {
		log.Printf("[ERROR] counters already initialized for form %d", t.Form.FormID)
		return t.agg
	}

	agg := &Aggregation{
		Level1:            map[int64]*NodeAnnotation{},
		Level2:            map[int64]*NodeAnnotation{},
		Activities:        map[int64]*NodeAnnotation{},
		Choices:           map[int64]*NodeAnnotation{},
		ResponsibleCounts: map[int64]int{},
	}

	countDirect := func(members []memberModel.Member) {
		for _, m := range members {
			agg.ResponsibleCounts[m.MemberID]++
		}
	}

	activityCount := 0
	for i := range t.Categories {
		cat1 := &t.Categories[i]
		an1 := newAnnotation(i)
		an1.add(cat1.Responsibles)
		countDirect(cat1.Responsibles)
		agg.Level1[cat1.Level1CategoryID] = an1

		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			an2 := newAnnotation(j)
			an2.add(cat2.Responsibles)
			countDirect(cat2.Responsibles)
			if includeAncestors {
				an2.add(cat1.Responsibles)
			}
			agg.Level2[cat2.Level2CategoryID] = an2

			for k := range cat2.Activities {
				activity := &cat2.Activities[k]
				if !activity.ActivitySkipNumbering {
					activityCount++
				}
				anAct := newAnnotation(activityCount)
				anAct.add(activity.Responsibles)
				countDirect(activity.Responsibles)
				if includeAncestors {
					anAct.add(cat1.Responsibles)
					anAct.add(cat2.Responsibles)
				}
				agg.Activities[activity.ActivityID] = anAct

				choiceCounter := 0
				for l := range activity.Choices {
					choice := &activity.Choices[l]
					if !choice.ActivityChoiceSkipNumbering {
						choiceCounter++
					}
					anChoice := newAnnotation(choiceCounter)
					anChoice.add(choice.Responsibles)
					countDirect(choice.Responsibles)
					if includeAncestors {
						anChoice.add(cat1.Responsibles)
						anChoice.add(cat2.Responsibles)
						anChoice.add(activity.Responsibles)
					}
					agg.Choices[choice.ActivityChoiceID] = anChoice
				}
			}
		}
	}

	for i := range t.Questions {
		countDirect(t.Questions[i].Responsibles)
	}

	t.agg = agg
	return agg
}

// AllResponsibles returns the deduplicated union of every directly
// assigned responsible in the tree, questions included.
func (t *FormTree) AllResponsibles() []memberModel.Member {
	seen := map[int64]memberModel.Member{}
	collect := func(members []memberModel.Member) {
		for _, m := range members {
			seen[m.MemberID] = m
		}
	}
	for i := range t.Categories {
		cat1 := &t.Categories[i]
		collect(cat1.Responsibles)
		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			collect(cat2.Responsibles)
			for k := range cat2.Activities {
				activity := &cat2.Activities[k]
				collect(activity.Responsibles)
				for l := range activity.Choices {
					collect(activity.Choices[l].Responsibles)
				}
			}
		}
	}
	for i := range t.Questions {
		collect(t.Questions[i].Responsibles)
	}
	out := make([]memberModel.Member, 0, len(seen))
	for _, m := range seen {
		out = append(out, m)
	}
	return out
}

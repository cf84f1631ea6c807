package core

import "time"

const day = 24 * time.Hour

// SampleNotes returns the demonstration set installed into empty storage:
// one note per known subject class, dated one to six days before now,
// newest first.
func SampleNotes(now time.Time) []Note {
	base := now.UTC().Truncate(time.Millisecond)
	const (
		thumbQuery = "?auto=compress&cs=tinysrgb&w=500&h=300&fit=crop"
		fullQuery  = "?auto=compress&cs=tinysrgb&w=800&h=600&fit=crop"
	)

	samples := []struct {
		id, title, class, image, fileName string
		tags                              []string
	}{
		{"1", "Calculus - Derivatives and Limits", ClassMath,
			"https://images.pexels.com/photos/6224/hands-people-woman-working.jpg", "calculus-notes.jpg",
			[]string{"derivatives", "limits", "calculus"}},
		{"2", "Physics - Wave Properties", ClassPhysics,
			"https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg", "physics-waves.jpg",
			[]string{"waves", "frequency", "amplitude"}},
		{"3", "Chemistry - Organic Compounds", ClassChemistry,
			"https://images.pexels.com/photos/289737/pexels-photo-289737.jpeg", "chemistry-organic.jpg",
			[]string{"organic", "molecules", "structure"}},
		{"4", "Biology - Cell Division", ClassBiology,
			"https://images.pexels.com/photos/256541/pexels-photo-256541.jpeg", "biology-cells.jpg",
			[]string{"mitosis", "cells", "reproduction"}},
		{"5", "History - World War II Timeline", ClassHistory,
			"https://images.pexels.com/photos/261763/pexels-photo-261763.jpeg", "history-wwii.jpg",
			[]string{"wwii", "timeline", "events"}},
		{"6", "Literature - Shakespeare Analysis", ClassLiterature,
			"https://images.pexels.com/photos/1370295/pexels-photo-1370295.jpeg", "literature-shakespeare.jpg",
			[]string{"shakespeare", "analysis", "hamlet"}},
	}

	notes := make([]Note, len(samples))
	for i, s := range samples {
		notes[i] = Note{
			ID:        s.id,
			Title:     s.title,
			Class:     s.class,
			Tags:      s.tags,
			Thumbnail: s.image + thumbQuery,
			FullImage: s.image + fullQuery,
			CreatedAt: base.Add(-time.Duration(i+1) * day),
			FileName:  s.fileName,
		}
	}
	return notes
}

package common

import "fmt"

// Annotation is a labelled output item produced by a register decoder.
// Class indexes the decoder's annotation class table, Tag is that class's ID.
type Annotation struct {
	Class  int
	Tag    string
	Labels []string // longest first
}

// NewAnnotation builds an annotation from its class and label variants.
func NewAnnotation(class int, tag string, labels ...string) *Annotation {
	return &Annotation{Class: class, Tag: tag, Labels: labels}
}

// Long returns the most verbose label, or "" when there are none.
func (a *Annotation) Long() string {
	if len(a.Labels) == 0 {
		return ""
	}
	return a.Labels[0]
}

// Short returns the most compact label.
func (a *Annotation) Short() string {
	if len(a.Labels) == 0 {
		return ""
	}
	return a.Labels[len(a.Labels)-1]
}

func (a *Annotation) String() string {
	return fmt.Sprintf("[%d:%s] %s", a.Class, a.Tag, a.Long())
}

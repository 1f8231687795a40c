// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
)

// Task identifies one of the five evaluation subtasks: three
// text-generation language variants and two image-captioning variants.
type Task string

const (
	TaskAEn Task = "a-en"
	TaskAEs Task = "a-es"
	TaskAZh Task = "a-zh"
	TaskB1  Task = "b1"
	TaskB2  Task = "b2"
)

// Tasks lists every task in a stable order.
var Tasks = []Task{TaskAEn, TaskAEs, TaskAZh, TaskB1, TaskB2}

func (t Task) Valid() bool {
	switch t {
	case TaskAEn, TaskAEs, TaskAZh, TaskB1, TaskB2:
		return true
	}
	return false
}

// ParseTask validates a task string from the wire.
func ParseTask(s string) (Task, error) {
	t := Task(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTask, s)
	}
	return t, nil
}

// TaskForPromptID derives the task from the prompt-ID prefix convention:
// en_/es_/zh_ map to the text tasks, img_2_ to b2 and any other img_ to b1.
func TaskForPromptID(promptID string) (Task, error) {
	switch {
	case strings.HasPrefix(promptID, "en_"):
		return TaskAEn, nil
	case strings.HasPrefix(promptID, "es_"):
		return TaskAEs, nil
	case strings.HasPrefix(promptID, "zh_"):
		return TaskAZh, nil
	case strings.HasPrefix(promptID, "img_2_"):
		return TaskB2, nil
	case strings.HasPrefix(promptID, "img_"):
		return TaskB1, nil
	}
	return "", fmt.Errorf("cannot determine the task for prompt ID %q: %w", promptID, ErrInvalidTask)
}

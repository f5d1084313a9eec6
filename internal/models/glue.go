package models

import "sort"

// GLUETask describes one task from the GLUE benchmark suite.
type GLUETask struct {
	Name string
	// PrimaryMetric is the metric key reported for this task during
	// consolidation (as written by the evaluation harness).
	PrimaryMetric string
	// ExtraMetrics are additional metric keys the harness emits for this task.
	ExtraMetrics []string
	// Regression is true for tasks scored by correlation rather than accuracy.
	Regression bool
}

// glueTasks is the set of tasks the trainer accepts for --task_name.
var glueTasks = map[string]GLUETask{
	"cola": {Name: "cola", PrimaryMetric: "matthews_correlation"},
	"mnli": {Name: "mnli", PrimaryMetric: "accuracy"},
	"mrpc": {Name: "mrpc", PrimaryMetric: "f1", ExtraMetrics: []string{"accuracy"}},
	"qnli": {Name: "qnli", PrimaryMetric: "accuracy"},
	"qqp":  {Name: "qqp", PrimaryMetric: "f1", ExtraMetrics: []string{"accuracy"}},
	"rte":  {Name: "rte", PrimaryMetric: "accuracy"},
	"sst2": {Name: "sst2", PrimaryMetric: "accuracy"},
	"stsb": {Name: "stsb", PrimaryMetric: "pearson", ExtraMetrics: []string{"spearmanr"}, Regression: true},
	"wnli": {Name: "wnli", PrimaryMetric: "accuracy"},
}

// LookupGLUETask returns the task definition for a task name.
func LookupGLUETask(name string) (GLUETask, bool) {
	t, ok := glueTasks[name]
	return t, ok
}

// GLUETaskNames returns all known task names in alphabetical order.
func GLUETaskNames() []string {
	names := make([]string, 0, len(glueTasks))
	for name := range glueTasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OptimizerDisplayName maps optimizer identifiers to the names used in
// result tables.
func OptimizerDisplayName(optimizer string) string {
	if name, ok := optimizerNames[optimizer]; ok {
		return name
	}
	return optimizer
}

var optimizerNames = map[string]string{
	"adadelta": "Adadelta",
	"adagrad":  "AdaGrad",
	"adam":     "Adam",
	"adamw":    "AdamW",
	"asgd":     "ASGD",
	"sgd":      "SGD",
	"rmsprop":  "RMSprop",
	"agni":     "AdamW + AGNI",
}

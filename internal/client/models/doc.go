// Package models defines the vault document kept inside the encrypted
// envelope: settings, quizzes, questions and grades, together with the
// operations that change them and the lenient normalization of model output.
package models

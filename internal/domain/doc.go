// Package domain contains the core planning entities (subjects, study blocks,
// users and schedule preferences) together with their validation rules. It is
// independent of any specific infrastructure or delivery mechanism.
package domain

package service

import "github.com/dtroode/auth-service/internal/model"

type nopMetrics struct{}

func (nopMetrics) UserRegistered()   {}
func (nopMetrics) LoginAttempt(bool) {}
func (nopMetrics) TokensIssued(int)  {}

func metricsOrNop(m model.AuthMetrics) model.AuthMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

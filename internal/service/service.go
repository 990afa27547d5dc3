package service

import (
	"yqms/pkg/log"
	"yqms/pkg/sid"
)

type Service struct {
	logger *log.Logger
	sid    *sid.Sid
}

func NewService(logger *log.Logger, sid *sid.Sid) *Service {
	return &Service{
		logger: logger,
		sid:    sid,
	}
}

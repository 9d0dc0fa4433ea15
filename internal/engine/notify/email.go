package notify

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/safe"
)

/**
 * @time: 2025/11/02
 * @file: email.go
 * @description: 邀请邮件通知, 经 HTTP 邮件网关投递
 */

// Notifier 邀请通知. 实现必须是尽力而为的: 投递失败只记日志,
// 绝不影响已提交的业务写入。
type Notifier interface {
	SendInvite(email, orgName, role, token string)
}

// InviteMail 邮件网关请求体
type InviteMail struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	OrgName  string `json:"orgName"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type MailNotifier struct {
	client     *resty.Client
	gatewayURL string
}

func NewMailNotifier(gatewayURL string) *MailNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)
	return &MailNotifier{
		client:     client,
		gatewayURL: gatewayURL,
	}
}

// SendInvite 异步投递, 调用方不等待结果
func (n *MailNotifier) SendInvite(email, orgName, role, token string) {
	safe.Go(func() {
		mail := &InviteMail{
			To:       email,
			Subject:  fmt.Sprintf("You're invited to join %s", orgName),
			Template: "org_invite",
			OrgName:  orgName,
			Role:     role,
			Token:    token,
		}
		resp, err := n.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(mail).
			Post(n.gatewayURL + "/api/v1/mail/send")
		if err != nil {
			log.Errorw("failed to send invite mail", "email", email, "err", err)
			return
		}
		if resp.IsError() {
			log.Errorw("mail gateway returned error", "email", email, "status", resp.StatusCode())
			return
		}
		log.Infow("invite mail sent", "email", email, "org", orgName)
	})
}

// NopNotifier 未配置邮件网关时使用, 仅记录日志
type NopNotifier struct{}

func (NopNotifier) SendInvite(email, orgName, role, token string) {
	log.Infow("invite created, mail gateway not configured", "email", email, "org", orgName, "role", role)
}

// NewNotifier 根据网关配置选择实现
func NewNotifier(gatewayURL string) Notifier {
	if gatewayURL == "" {
		return NopNotifier{}
	}
	return NewMailNotifier(gatewayURL)
}

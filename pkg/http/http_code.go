// Copyright 2025 Worklane Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

// Code 传输层错误码，携带稳定的机器可读 code 字符串
type Code struct {
	Status int
	Code   string
	Msg    string
}

var (
	RequestParameterParsingFailed = failed(400, "VALIDATION_ERROR", "Request parameter parsing failed")
	OrgIdIsEmpty                  = failed(400, "VALIDATION_ERROR", "Org id is empty")

	// Unauthorized 401
	Unauthorized         = failed(401, "UNAUTHORIZED", "Unauthorized")
	AuthenticationFailed = failed(401, "AUTHENTICATION_FAILED", "Authentication failed")
	InvalidToken         = failed(401, "INVALID_TOKEN", "Invalid token")
	TokenBeEmpty         = failed(401, "TOKEN_EMPTY", "Token cannot be empty")
	TokenExpired         = failed(401, "TOKEN_EXPIRED", "Token is expired")

	// Forbidden 403
	Forbidden = failed(403, "FORBIDDEN", "Forbidden")

	NotFound = failed(404, "NOT_FOUND", "Not found")

	InternalError = failed(500, "INTERNAL_ERROR", "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(status int, code, msg string) *Code {
	return &Code{
		Status: status,
		Code:   code,
		Msg:    msg,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

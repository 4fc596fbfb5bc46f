package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantRoleRequest struct {
	Role      string `json:"role"`
	Principal string `json:"principal"`
}

type GrantRoleResponse struct {
	Role          string `json:"role"`
	Principal     string `json:"principal"`
	GrantedBy     string `json:"granted_by"`
	AlreadyActive bool   `json:"already_active"`
}

type RevokeRoleRequest struct {
	Role      string `json:"role"`
	Principal string `json:"principal"`
}

type RevokeRoleResponse struct {
	Role      string `json:"role"`
	Principal string `json:"principal"`
	Revoked   bool   `json:"revoked"`
}

type CheckRoleResponse struct {
	Role      string `json:"role"`
	Principal string `json:"principal"`
	Granted   bool   `json:"granted"`
}

type RoleGrantItem struct {
	Role      string `json:"role"`
	GrantedBy string `json:"granted_by"`
	GrantedAt string `json:"granted_at"`
}

type ListRolesResponse struct {
	Principal string          `json:"principal"`
	Roles     []RoleGrantItem `json:"roles"`
}

type CreateOrganizationRequest struct {
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

type OrganizationResponse struct {
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

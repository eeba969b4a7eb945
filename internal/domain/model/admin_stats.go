package model

type AdminStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalTrucks      int64 `json:"totalTrucks"`
	TotalOrders      int64 `json:"totalOrders"`
	TotalCustomers   int64 `json:"totalCustomers"`
	TotalOwners      int64 `json:"totalOwners"`
	PendingApprovals int64 `json:"pendingApprovals"`
}

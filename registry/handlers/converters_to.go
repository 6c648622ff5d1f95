package handlers

import "edgemesh/registry/domain"

func toLeaseResponse(i domain.ServiceInstance) LeaseResponse {
	return LeaseResponse{
		Service:     i.ServiceName,
		InstanceId:  i.InstanceID,
		LeaseId:     i.LeaseID,
		Status:      string(i.Status),
		LeaseExpiry: i.LeaseExpiry,
	}
}

// toInstancesResponse converts domain instances to the resolve array; never nil so it encodes as [].
func toInstancesResponse(instances []domain.ServiceInstance) []InstanceInfo {
	out := make([]InstanceInfo, 0, len(instances))
	for _, i := range instances {
		out = append(out, InstanceInfo{
			InstanceId:  i.InstanceID,
			Host:        i.Host,
			Port:        i.Port,
			Status:      string(i.Status),
			LeaseExpiry: i.LeaseExpiry,
		})
	}
	return out
}

func toServicesResponse(services []domain.ServiceSummary) ServicesResponse {
	out := make([]ServiceSummary, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceSummary{
			Name:             s.Name,
			Total:            s.Total,
			Up:               s.Up,
			SelfPreservation: s.SelfPreservation,
		})
	}
	return ServicesResponse{Services: out}
}

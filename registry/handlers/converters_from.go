package handlers

import "edgemesh/registry/domain"

// fromRegisterRequest builds the instance to register from the path and body.
func fromRegisterRequest(service, instance string, req RegisterRequest) domain.ServiceInstance {
	return domain.ServiceInstance{
		ServiceName: service,
		InstanceID:  instance,
		Host:        req.Host,
		Port:        req.Port,
	}
}

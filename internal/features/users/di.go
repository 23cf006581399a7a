package users

import "golang.org/x/time/rate"

var userRepository = &UserRepository{}

var userService = &UserService{
	userRepository,
}

var userController = &UserController{
	userService:   userService,
	signinLimiter: rate.NewLimiter(rate.Limit(3), 3), // 3 RPS with burst of 3
}

func GetUserService() *UserService {
	return userService
}

func GetUserController() *UserController {
	return userController
}
